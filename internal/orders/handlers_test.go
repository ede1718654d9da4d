package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/books"
)

// MockOrderUseCase simula o use case de pedidos
type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockOrderUseCase) GetByID(ctx context.Context, id string, claims auth.Claims) (*Order, error) {
	args := m.Called(ctx, id, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockOrderUseCase) ListByEmail(ctx context.Context, email string, claims auth.Claims) ([]Order, error) {
	args := m.Called(ctx, email, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockOrderUseCase) ListMine(ctx context.Context, claims auth.Claims) ([]Order, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockOrderUseCase) ListAll(ctx context.Context) ([]Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockOrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockOrderUseCase) Cancel(ctx context.Context, id string, claims auth.Claims) (*Order, error) {
	args := m.Called(ctx, id, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func performCreate(h *OrderHandler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validOrderBody = `{
	"name": "John Doe",
	"email": "john@example.com",
	"address": {"city": "São Paulo"},
	"products": [{"productId": "book-1", "quantity": 1}]
}`

func TestCreateHandler(t *testing.T) {
	uc := new(MockOrderUseCase)
	h := NewOrderHandler(uc, false)

	created := &Order{ID: "order-1", Email: "john@example.com", Status: OrderStatusPending}
	uc.On("Create", mock.Anything, mock.AnythingOfType("orders.CreateOrderRequest")).Return(created, nil)

	w := performCreate(h, validOrderBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "order-1")
}

func TestCreateHandlerMissingAddress(t *testing.T) {
	uc := new(MockOrderUseCase)
	h := NewOrderHandler(uc, false)

	w := performCreate(h, `{"name": "John", "email": "john@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Create")
}

func TestCreateHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"empty order", ErrEmptyOrder, http.StatusBadRequest, "at least one product"},
		{"insufficient stock", books.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
		{"product not found", books.ErrBookNotFound, http.StatusNotFound, "Product not found"},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError, "Failed to process order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockOrderUseCase)
			h := NewOrderHandler(uc, false)
			uc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := performCreate(h, validOrderBody)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestCreateHandlerHidesDetailOutsideDev(t *testing.T) {
	uc := new(MockOrderUseCase)
	h := NewOrderHandler(uc, false)
	uc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("pq: relation does not exist"))

	w := performCreate(h, validOrderBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq: relation does not exist")
}

func TestUpdateStatusHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid status", ErrInvalidStatus, http.StatusBadRequest},
		{"terminal transition", ErrInvalidTransition, http.StatusBadRequest},
		{"not found", ErrOrderNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockOrderUseCase)
			h := NewOrderHandler(uc, false)
			uc.On("UpdateStatus", mock.Anything, "order-1", "shipped").Return(nil, tt.err)

			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.PUT("/api/orders/:id/status", h.UpdateStatus)

			req := httptest.NewRequest(http.MethodPut, "/api/orders/order-1/status",
				strings.NewReader(`{"status": "shipped"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCancelHandlerForbidden(t *testing.T) {
	uc := new(MockOrderUseCase)
	h := NewOrderHandler(uc, false)
	uc.On("Cancel", mock.Anything, "order-1", mock.Anything).Return(nil, ErrForbidden)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders/:id/cancel", h.Cancel)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/order-1/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized access to this order")
}
