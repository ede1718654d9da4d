package forum

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/bookstore-api/internal/auth"
)

// ForumUseCase contém a lógica de negócio do fórum
type ForumUseCase struct {
	repository Repository
	log        *logrus.Entry
}

// NewForumUseCase cria uma nova instância de ForumUseCase
func NewForumUseCase(repository Repository, log *logrus.Entry) *ForumUseCase {
	return &ForumUseCase{
		repository: repository,
		log:        log,
	}
}

// Create publica um novo post
func (uc *ForumUseCase) Create(ctx context.Context, req PostRequest, author auth.Claims) (*Post, error) {
	if !ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	post := NewPost(req, author)
	if err := uc.repository.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.log.Infof("✅ Post created: %s by %s", post.ID, author.Username)
	return post, nil
}

// List busca posts paginados com filtros
func (uc *ForumUseCase) List(ctx context.Context, filter ListFilter) (*PostPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	posts, total, err := uc.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}

	return &PostPage{
		Posts:       posts,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		CurrentPage: filter.Page,
	}, nil
}

// Get busca um post e incrementa as visualizações
func (uc *ForumUseCase) Get(ctx context.Context, id string) (*Post, error) {
	post, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.repository.IncrementViews(ctx, id); err != nil {
		uc.log.Warnf("⚠️ Failed to increment views for %s: %v", id, err)
	} else {
		post.Views++
	}
	return post, nil
}

// Update edita um post; somente o autor pode editar
func (uc *ForumUseCase) Update(ctx context.Context, id string, req PostRequest, claims auth.Claims) (*Post, error) {
	post, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.EditableBy(claims) {
		return nil, ErrNotAuthor
	}
	if !ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Category = req.Category
	post.Tags = req.Tags
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := uc.repository.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete remove um post; autor ou admin
func (uc *ForumUseCase) Delete(ctx context.Context, id string, claims auth.Claims) error {
	post, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.DeletableBy(claims) {
		return ErrNotAuthor
	}

	if err := uc.repository.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.Infof("🗑️ Post deleted: %s", id)
	return nil
}

// AddComment adiciona um comentário a um post
func (uc *ForumUseCase) AddComment(ctx context.Context, postID, content string, author auth.Claims) (*Comment, error) {
	if _, err := uc.repository.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := NewComment(postID, content, author)
	if err := uc.repository.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

// ToggleLike registra ou remove uma curtida e devolve o total atual
func (uc *ForumUseCase) ToggleLike(ctx context.Context, postID string, claims auth.Claims) (int, error) {
	if _, err := uc.repository.GetByID(ctx, postID); err != nil {
		return 0, err
	}
	return uc.repository.ToggleLike(ctx, postID, claims.UserID)
}
