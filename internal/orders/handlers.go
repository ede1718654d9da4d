package orders

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/books"
	"github.com/matheusmosca/bookstore-api/internal/httpapi"
)

// OrderUseCaseInterface define a interface para o use case de pedidos
type OrderUseCaseInterface interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetByID(ctx context.Context, id string, claims auth.Claims) (*Order, error)
	ListByEmail(ctx context.Context, email string, claims auth.Claims) ([]Order, error)
	ListMine(ctx context.Context, claims auth.Claims) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*Order, error)
	Cancel(ctx context.Context, id string, claims auth.Claims) (*Order, error)
}

// OrderHandler contém os handlers HTTP de pedidos
type OrderHandler struct {
	useCase OrderUseCaseInterface
	dev     bool
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase OrderUseCaseInterface, dev bool) *OrderHandler {
	return &OrderHandler{useCase: useCase, dev: dev}
}

func (h *OrderHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyOrder):
		httpapi.Error(c, http.StatusBadRequest, "Order must contain at least one product", err, h.dev)
	case errors.Is(err, ErrInvalidStatus):
		httpapi.Error(c, http.StatusBadRequest,
			"Invalid status. Must be one of: pending, processing, shipped, delivered, cancelled", err, h.dev)
	case errors.Is(err, ErrInvalidTransition):
		httpapi.Error(c, http.StatusBadRequest, "Order status does not allow this transition", err, h.dev)
	case errors.Is(err, books.ErrInsufficientStock):
		httpapi.Error(c, http.StatusBadRequest, "Insufficient stock for one of the products", err, h.dev)
	case errors.Is(err, books.ErrBookNotFound):
		httpapi.Error(c, http.StatusNotFound, "Product not found", err, h.dev)
	case errors.Is(err, ErrOrderNotFound):
		httpapi.Error(c, http.StatusNotFound, "Order not found", err, h.dev)
	case errors.Is(err, ErrForbidden):
		httpapi.Error(c, http.StatusForbidden, "Unauthorized access to this order", err, h.dev)
	default:
		httpapi.Error(c, http.StatusInternalServerError, "Failed to process order", err, h.dev)
	}
}

// Create cria um pedido. Quando a requisição carrega uma credencial,
// o email verificado prevalece sobre o do corpo.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	if claims, ok := auth.CurrentUser(c); ok {
		req.Email = claims.Username
	}

	order, err := h.useCase.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetByEmail lista os pedidos de um email de correlação (dono ou admin)
func (h *OrderHandler) GetByEmail(c *gin.Context) {
	claims, _ := auth.CurrentUser(c)

	result, err := h.useCase.ListByEmail(c.Request.Context(), c.Param("email"), claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMine lista os pedidos do usuário autenticado
func (h *OrderHandler) GetMine(c *gin.Context) {
	claims, _ := auth.CurrentUser(c)

	result, err := h.useCase.ListMine(c.Request.Context(), claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAll lista todos os pedidos (somente admin)
func (h *OrderHandler) GetAll(c *gin.Context) {
	result, err := h.useCase.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetByID busca um pedido (dono ou admin)
func (h *OrderHandler) GetByID(c *gin.Context) {
	claims, _ := auth.CurrentUser(c)

	order, err := h.useCase.GetByID(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateStatus aplica uma transição de status (somente admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	order, err := h.useCase.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Cancel cancela um pedido (dono ou admin)
func (h *OrderHandler) Cancel(c *gin.Context) {
	claims, _ := auth.CurrentUser(c)

	order, err := h.useCase.Cancel(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
