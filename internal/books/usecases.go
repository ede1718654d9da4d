package books

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// BookUseCase contém a lógica de negócio do catálogo
type BookUseCase struct {
	repository Repository
	log        *logrus.Entry
}

// NewBookUseCase cria uma nova instância de BookUseCase
func NewBookUseCase(repository Repository, log *logrus.Entry) *BookUseCase {
	return &BookUseCase{
		repository: repository,
		log:        log,
	}
}

// List busca livros do catálogo
func (uc *BookUseCase) List(ctx context.Context, filter ListFilter) ([]Book, error) {
	return uc.repository.List(ctx, filter)
}

// Get busca um livro pelo ID
func (uc *BookUseCase) Get(ctx context.Context, id string) (*Book, error) {
	return uc.repository.GetByID(ctx, id)
}

// Create cadastra um novo livro
func (uc *BookUseCase) Create(ctx context.Context, req CreateBookRequest) (*Book, error) {
	book := NewBook(req)
	if err := uc.repository.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	uc.log.Infof("✅ Book created: %s (%s)", book.Title, book.ID)
	return book, nil
}

// Update edita um livro existente
func (uc *BookUseCase) Update(ctx context.Context, id string, req CreateBookRequest) (*Book, error) {
	book, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Title = req.Title
	book.Author = req.Author
	book.Category = req.Category
	book.Description = req.Description
	book.CoverImage = req.CoverImage
	book.Price = req.Price
	book.OldPrice = req.OldPrice
	book.NewPrice = req.NewPrice
	book.CountInStock = req.CountInStock
	book.Trending = req.Trending

	if err := uc.repository.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	uc.log.Infof("✅ Book updated: %s", id)
	return book, nil
}

// Delete remove um livro do catálogo
func (uc *BookUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repository.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.Infof("🗑️ Book deleted: %s", id)
	return nil
}
