package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository define a interface para operações de banco de dados do catálogo
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Book, error)
	GetByID(ctx context.Context, id string) (*Book, error)
	Create(ctx context.Context, book *Book) error
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id string) error

	// ReserveStock decrementa o estoque de forma condicional e atômica:
	// a escrita só acontece se o estoque restante não ficar negativo.
	ReserveStock(ctx context.Context, id string, quantity int) error

	// ReleaseStock devolve quantidade ao estoque (cancelamento/compensação)
	ReleaseStock(ctx context.Context, id string, quantity int) error
}

// PostgresRepository implementa Repository usando PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository cria uma nova instância de PostgresRepository
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookColumns = `id, title, author, category, description, cover_image,
	price, old_price, new_price, count_in_stock, trending, created_at, updated_at`

func scanBook(row pgx.Row) (*Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Category, &b.Description, &b.CoverImage,
		&b.Price, &b.OldPrice, &b.NewPrice, &b.CountInStock, &b.Trending,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List busca livros do catálogo com filtros opcionais
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE 1=1`
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d)", len(args), len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *book)
	}
	return result, rows.Err()
}

// GetByID busca um livro pelo ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Book, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	book, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Create insere um novo livro no catálogo
func (r *PostgresRepository) Create(ctx context.Context, book *Book) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO books (id, title, author, category, description, cover_image,
			price, old_price, new_price, count_in_stock, trending, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, book.ID, book.Title, book.Author, book.Category, book.Description, book.CoverImage,
		book.Price, book.OldPrice, book.NewPrice, book.CountInStock, book.Trending,
		book.CreatedAt, book.UpdatedAt)
	return err
}

// Update grava os campos editáveis de um livro
func (r *PostgresRepository) Update(ctx context.Context, book *Book) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE books
		SET title = $2, author = $3, category = $4, description = $5, cover_image = $6,
			price = $7, old_price = $8, new_price = $9, count_in_stock = $10,
			trending = $11, updated_at = NOW()
		WHERE id = $1
	`, book.ID, book.Title, book.Author, book.Category, book.Description, book.CoverImage,
		book.Price, book.OldPrice, book.NewPrice, book.CountInStock, book.Trending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete remove um livro do catálogo
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// ReserveStock decrementa o estoque somente se houver quantidade suficiente
func (r *PostgresRepository) ReserveStock(ctx context.Context, id string, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE books
		SET count_in_stock = count_in_stock - $2, updated_at = NOW()
		WHERE id = $1 AND count_in_stock >= $2
	`, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distingue livro inexistente de estoque insuficiente
	var exists bool
	err = r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check book existence: %w", err)
	}
	if !exists {
		return ErrBookNotFound
	}
	return ErrInsufficientStock
}

// ReleaseStock devolve quantidade ao estoque do livro
func (r *PostgresRepository) ReleaseStock(ctx context.Context, id string, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE books
		SET count_in_stock = count_in_stock + $2, updated_at = NOW()
		WHERE id = $1
	`, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}
