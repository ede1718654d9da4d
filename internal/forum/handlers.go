package forum

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/httpapi"
)

// ForumUseCaseInterface define a interface para o use case do fórum
type ForumUseCaseInterface interface {
	Create(ctx context.Context, req PostRequest, author auth.Claims) (*Post, error)
	List(ctx context.Context, filter ListFilter) (*PostPage, error)
	Get(ctx context.Context, id string) (*Post, error)
	Update(ctx context.Context, id string, req PostRequest, claims auth.Claims) (*Post, error)
	Delete(ctx context.Context, id string, claims auth.Claims) error
	AddComment(ctx context.Context, postID, content string, author auth.Claims) (*Comment, error)
	ToggleLike(ctx context.Context, postID string, claims auth.Claims) (int, error)
}

// ForumHandler contém os handlers HTTP do fórum
type ForumHandler struct {
	useCase ForumUseCaseInterface
	dev     bool
}

// NewForumHandler cria uma nova instância de ForumHandler
func NewForumHandler(useCase ForumUseCaseInterface, dev bool) *ForumHandler {
	return &ForumHandler{useCase: useCase, dev: dev}
}

func (h *ForumHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		httpapi.Error(c, http.StatusNotFound, "Post not found", err, h.dev)
	case errors.Is(err, ErrInvalidCategory):
		httpapi.Error(c, http.StatusBadRequest, "Invalid post category", err, h.dev)
	case errors.Is(err, ErrNotAuthor):
		httpapi.Error(c, http.StatusForbidden, "Not authorized to modify this post", err, h.dev)
	default:
		httpapi.Error(c, http.StatusInternalServerError, "Failed to process post", err, h.dev)
	}
}

// Create publica um novo post
func (h *ForumHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	claims, _ := auth.CurrentUser(c)

	post, err := h.useCase.Create(c.Request.Context(), req, claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List busca posts paginados com filtros
func (h *ForumHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := ListFilter{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
	}

	result, err := h.useCase.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get busca um post pelo ID
func (h *ForumHandler) Get(c *gin.Context) {
	post, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update edita um post (somente autor)
func (h *ForumHandler) Update(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	claims, _ := auth.CurrentUser(c)

	post, err := h.useCase.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete remove um post (autor ou admin)
func (h *ForumHandler) Delete(c *gin.Context) {
	claims, _ := auth.CurrentUser(c)

	if err := h.useCase.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// AddComment adiciona um comentário a um post
func (h *ForumHandler) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	claims, _ := auth.CurrentUser(c)

	comment, err := h.useCase.AddComment(c.Request.Context(), c.Param("id"), req.Content, claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ToggleLike registra ou remove uma curtida
func (h *ForumHandler) ToggleLike(c *gin.Context) {
	claims, _ := auth.CurrentUser(c)

	likes, err := h.useCase.ToggleLike(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}
