package books

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/bookstore-api/internal/cache"
)

// fakeCache é um cache em memória para os testes do decorador
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

// MockBookRepository simula o repositório de catálogo
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(ctx context.Context, filter ListFilter) ([]Book, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Book), args.Error(1)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id string) (*Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Book), args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, book *Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, book *Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) ReserveStock(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockBookRepository) ReleaseStock(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func newCachedRepo(repo Repository, c cache.Cache) *CachedRepository {
	return NewCachedRepository(repo, c, logrus.NewEntry(logrus.New()))
}

func TestCachedGetByID(t *testing.T) {
	// Arrange: a primeira leitura vem do banco, a segunda do cache
	repo := new(MockBookRepository)
	fake := newFakeCache()
	cached := newCachedRepo(repo, fake)

	stored := &Book{ID: "book-1", Title: "Go in Action", Price: 20}
	repo.On("GetByID", mock.Anything, "book-1").Return(stored, nil).Once()

	// Act
	first, err := cached.GetByID(context.Background(), "book-1")
	require.NoError(t, err)

	second, err := cached.GetByID(context.Background(), "book-1")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first.Title, second.Title)
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCachedListOnlyWithoutFilter(t *testing.T) {
	repo := new(MockBookRepository)
	fake := newFakeCache()
	cached := newCachedRepo(repo, fake)

	all := []Book{{ID: "book-1"}, {ID: "book-2"}}
	repo.On("List", mock.Anything, ListFilter{}).Return(all, nil).Once()

	filtered := []Book{{ID: "book-1"}}
	repo.On("List", mock.Anything, ListFilter{Search: "go"}).Return(filtered, nil).Twice()

	// A listagem sem filtro é servida do cache a partir da segunda chamada
	_, err := cached.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	result, err := cached.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, result, 2)

	// A listagem filtrada nunca usa cache
	_, err = cached.List(context.Background(), ListFilter{Search: "go"})
	require.NoError(t, err)
	_, err = cached.List(context.Background(), ListFilter{Search: "go"})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestCachedUpdateInvalidates(t *testing.T) {
	repo := new(MockBookRepository)
	fake := newFakeCache()
	cached := newCachedRepo(repo, fake)

	stored := &Book{ID: "book-1", Title: "Go in Action", Price: 20}
	repo.On("GetByID", mock.Anything, "book-1").Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)

	// Aquece o cache e depois invalida com a escrita
	_, err := cached.GetByID(context.Background(), "book-1")
	require.NoError(t, err)
	require.Contains(t, fake.data, "book:book-1")

	require.NoError(t, cached.Update(context.Background(), stored))
	assert.NotContains(t, fake.data, "book:book-1")
	assert.NotContains(t, fake.data, "books:all")
}

func TestCachedReserveStockInvalidates(t *testing.T) {
	repo := new(MockBookRepository)
	fake := newFakeCache()
	cached := newCachedRepo(repo, fake)

	stored := &Book{ID: "book-1", CountInStock: 5}
	repo.On("GetByID", mock.Anything, "book-1").Return(stored, nil)
	repo.On("ReserveStock", mock.Anything, "book-1", 2).Return(nil)

	_, err := cached.GetByID(context.Background(), "book-1")
	require.NoError(t, err)

	require.NoError(t, cached.ReserveStock(context.Background(), "book-1", 2))
	assert.NotContains(t, fake.data, "book:book-1")
}

func TestCachedReserveStockFailureKeepsCache(t *testing.T) {
	repo := new(MockBookRepository)
	fake := newFakeCache()
	cached := newCachedRepo(repo, fake)

	repo.On("ReserveStock", mock.Anything, "book-1", 99).Return(ErrInsufficientStock)
	fake.data["book:book-1"] = []byte(`{"id":"book-1"}`)

	err := cached.ReserveStock(context.Background(), "book-1", 99)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, fake.data, "book:book-1")
}
