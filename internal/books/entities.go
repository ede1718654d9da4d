package books

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBookNotFound indica que o livro não existe no catálogo
	ErrBookNotFound = errors.New("book not found")
	// ErrInsufficientStock indica estoque insuficiente para a quantidade pedida
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Book representa um livro do catálogo
type Book struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	CoverImage   string    `json:"coverImage"`
	Price        float64   `json:"price"`
	OldPrice     float64   `json:"oldPrice"`
	NewPrice     float64   `json:"newPrice"`
	CountInStock int       `json:"countInStock"`
	Trending     bool      `json:"trending"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateBookRequest representa a requisição para cadastrar um livro
type CreateBookRequest struct {
	Title        string  `json:"title" binding:"required"`
	Author       string  `json:"author"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	CoverImage   string  `json:"coverImage"`
	Price        float64 `json:"price"`
	OldPrice     float64 `json:"oldPrice"`
	NewPrice     float64 `json:"newPrice"`
	CountInStock int     `json:"countInStock" binding:"gte=0"`
	Trending     bool    `json:"trending"`
}

// NewBook cria uma nova instância de Book
func NewBook(req CreateBookRequest) *Book {
	now := time.Now()
	return &Book{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Author:       req.Author,
		Category:     req.Category,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		Price:        req.Price,
		OldPrice:     req.OldPrice,
		NewPrice:     req.NewPrice,
		CountInStock: req.CountInStock,
		Trending:     req.Trending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// EffectivePrice devolve o preço com desconto quando existir
func (b *Book) EffectivePrice() float64 {
	if b.NewPrice > 0 {
		return b.NewPrice
	}
	return b.Price
}

// ListFilter restringe a listagem do catálogo
type ListFilter struct {
	Search   string
	Category string
}

// IsEmpty indica se a listagem não tem filtro algum
func (f ListFilter) IsEmpty() bool {
	return f.Search == "" && f.Category == ""
}
