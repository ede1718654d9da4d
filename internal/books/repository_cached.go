package books

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/bookstore-api/internal/cache"
)

// CachedRepository decora um Repository com cache de leitura no Redis.
// Falha de cache nunca falha a operação: degrada para o banco.
type CachedRepository struct {
	repo  Repository
	cache cache.Cache
	log   *logrus.Entry
}

// NewCachedRepository cria um repositório de catálogo com cache
func NewCachedRepository(repo Repository, c cache.Cache, log *logrus.Entry) *CachedRepository {
	return &CachedRepository{repo: repo, cache: c, log: log}
}

func bookKey(id string) string {
	return "book:" + id
}

func allBooksKey() string {
	return "books:all"
}

// List busca livros, usando cache apenas para a listagem sem filtros
func (r *CachedRepository) List(ctx context.Context, filter ListFilter) ([]Book, error) {
	if !filter.IsEmpty() {
		return r.repo.List(ctx, filter)
	}

	var cached []Book
	if err := r.cache.Get(ctx, allBooksKey(), &cached); err == nil {
		r.log.Debug("📦 Cache HIT: all books")
		return cached, nil
	}

	result, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, allBooksKey(), result); err != nil {
		r.log.Warnf("⚠️ Failed to cache books: %v", err)
	}
	return result, nil
}

// GetByID busca um livro pelo ID, com cache
func (r *CachedRepository) GetByID(ctx context.Context, id string) (*Book, error) {
	var cached Book
	err := r.cache.Get(ctx, bookKey(id), &cached)
	if err == nil {
		r.log.Debugf("📦 Cache HIT: book %s", id)
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		r.log.Warnf("⚠️ Cache error: %v", err)
	}

	book, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, bookKey(id), book); err != nil {
		r.log.Warnf("⚠️ Failed to cache book: %v", err)
	}
	return book, nil
}

func (r *CachedRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, bookKey(id), allBooksKey()); err != nil {
		r.log.Warnf("⚠️ Failed to invalidate cache: %v", err)
	}
}

// Create insere o livro e invalida a listagem em cache
func (r *CachedRepository) Create(ctx context.Context, book *Book) error {
	if err := r.repo.Create(ctx, book); err != nil {
		return err
	}
	r.invalidate(ctx, book.ID)
	return nil
}

// Update grava o livro e invalida as entradas em cache
func (r *CachedRepository) Update(ctx context.Context, book *Book) error {
	if err := r.repo.Update(ctx, book); err != nil {
		return err
	}
	r.invalidate(ctx, book.ID)
	return nil
}

// Delete remove o livro e invalida as entradas em cache
func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// ReserveStock delega ao banco e invalida o cache do livro afetado
func (r *CachedRepository) ReserveStock(ctx context.Context, id string, quantity int) error {
	if err := r.repo.ReserveStock(ctx, id, quantity); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// ReleaseStock delega ao banco e invalida o cache do livro afetado
func (r *CachedRepository) ReleaseStock(ctx context.Context, id string, quantity int) error {
	if err := r.repo.ReleaseStock(ctx, id, quantity); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}
