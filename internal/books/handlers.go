package books

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/bookstore-api/internal/httpapi"
)

// BookUseCaseInterface define a interface para o use case do catálogo
type BookUseCaseInterface interface {
	List(ctx context.Context, filter ListFilter) ([]Book, error)
	Get(ctx context.Context, id string) (*Book, error)
	Create(ctx context.Context, req CreateBookRequest) (*Book, error)
	Update(ctx context.Context, id string, req CreateBookRequest) (*Book, error)
	Delete(ctx context.Context, id string) error
}

// BookHandler contém os handlers HTTP do catálogo
type BookHandler struct {
	useCase BookUseCaseInterface
	dev     bool
}

// NewBookHandler cria uma nova instância de BookHandler
func NewBookHandler(useCase BookUseCaseInterface, dev bool) *BookHandler {
	return &BookHandler{useCase: useCase, dev: dev}
}

// List lista o catálogo com filtros opcionais
func (h *BookHandler) List(c *gin.Context) {
	filter := ListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	result, err := h.useCase.List(c.Request.Context(), filter)
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch books", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get busca um livro pelo ID
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrBookNotFound) {
		httpapi.Error(c, http.StatusNotFound, "Book not found", err, h.dev)
		return
	}
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch book", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, book)
}

// Create cadastra um livro (somente admin)
func (h *BookHandler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	book, err := h.useCase.Create(c.Request.Context(), req)
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to create book", err, h.dev)
		return
	}

	c.JSON(http.StatusCreated, book)
}

// Update edita um livro (somente admin)
func (h *BookHandler) Update(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	book, err := h.useCase.Update(c.Request.Context(), c.Param("id"), req)
	if errors.Is(err, ErrBookNotFound) {
		httpapi.Error(c, http.StatusNotFound, "Book not found", err, h.dev)
		return
	}
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update book", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete remove um livro (somente admin)
func (h *BookHandler) Delete(c *gin.Context) {
	err := h.useCase.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrBookNotFound) {
		httpapi.Error(c, http.StatusNotFound, "Book not found", err, h.dev)
		return
	}
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to delete book", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
