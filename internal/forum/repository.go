package forum

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository define a interface para operações de banco de dados do fórum
type Repository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, filter ListFilter) ([]Post, int, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, comment *Comment) error
	// ToggleLike registra ou remove a curtida e devolve o total atual
	ToggleLike(ctx context.Context, postID, userID string) (int, error)
	IncrementViews(ctx context.Context, id string) error
}

// PostgresRepository implementa Repository usando PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository cria uma nova instância de PostgresRepository
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postColumns = `p.id, p.title, p.content, p.author_id, u.username, p.category, p.tags,
	p.views, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id)`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorName, &p.Category, &p.Tags,
		&p.Views, &p.CreatedAt, &p.UpdatedAt, &p.Likes,
	)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Comments = []Comment{}
	return &p, nil
}

// Create insere um novo post
func (r *PostgresRepository) Create(ctx context.Context, post *Post) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO posts (id, title, content, author_id, category, tags, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, post.ID, post.Title, post.Content, post.AuthorID, post.Category, post.Tags,
		post.Views, post.CreatedAt, post.UpdatedAt)
	return err
}

// GetByID busca um post com comentários e total de curtidas
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id)

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.post_id, c.author_id, u.username, c.content, c.created_at
		FROM post_comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		post.Comments = append(post.Comments, c)
	}
	return post, rows.Err()
}

// List busca posts paginados com filtros opcionais e devolve o total
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Post, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND p.category = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += fmt.Sprintf(" AND $%d = ANY(p.tags)", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (p.title ILIKE $%d OR p.content ILIKE $%d)", len(args), len(args))
	}

	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitArg := len(args)
	args = append(args, (filter.Page-1)*filter.Limit)
	offsetArg := len(args)

	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
	`+where+fmt.Sprintf(` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, limitArg, offsetArg),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *post)
	}
	return result, total, rows.Err()
}

// Update grava os campos editáveis de um post
func (r *PostgresRepository) Update(ctx context.Context, post *Post) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, category = $4, tags = $5, updated_at = NOW()
		WHERE id = $1
	`, post.ID, post.Title, post.Content, post.Category, post.Tags)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete remove um post
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddComment insere um comentário em um post
func (r *PostgresRepository) AddComment(ctx context.Context, comment *Comment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO post_comments (id, post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt)
	return err
}

// ToggleLike registra a curtida se não existir, remove se existir
func (r *PostgresRepository) ToggleLike(ctx context.Context, postID, userID string) (int, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, postID, userID)
	if err != nil {
		return 0, err
	}

	if tag.RowsAffected() == 0 {
		_, err = r.db.Exec(ctx, `
			DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2
		`, postID, userID)
		if err != nil {
			return 0, err
		}
	}

	var likes int
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&likes)
	return likes, err
}

// IncrementViews incrementa o contador de visualizações
func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	return err
}
