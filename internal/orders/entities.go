package orders

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/books"
)

// OrderStatus representa os possíveis status de um pedido
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var (
	// ErrOrderNotFound indica que o pedido não existe
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder indica pedido sem nenhum item
	ErrEmptyOrder = errors.New("order must contain at least one product")
	// ErrInvalidStatus indica um status fora do conjunto reconhecido
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition indica transição a partir de um status terminal
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden indica acesso de quem não é dono nem admin
	ErrForbidden = errors.New("forbidden order access")
)

// ValidStatus indica se o status pertence ao conjunto reconhecido
func ValidStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// TerminalStatus indica se o status não admite mais transições
func TerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// Address representa o endereço de entrega de um pedido
type Address struct {
	City    string `json:"city" binding:"required"`
	Country string `json:"country"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// LineItem é a tupla {produto, quantidade, preço congelado} de um pedido.
// O preço é congelado na criação e não acompanha o catálogo.
type LineItem struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     float64     `json:"price"`
	Book      *books.Book `json:"book,omitempty"`
}

// Order representa um pedido no sistema
type Order struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         int64      `json:"phone"`
	Address       Address    `json:"address"`
	PaymentMethod string     `json:"paymentMethod"`
	Items         []LineItem `json:"products"`
	// ProductIDs é a representação legada, derivada dos itens na
	// serialização; nunca é persistida como segunda fonte de verdade.
	ProductIDs  []string   `json:"productIds"`
	TotalPrice  float64    `json:"totalPrice"`
	Status      string     `json:"status"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewOrder cria um novo pedido pendente com itens já precificados
func NewOrder(req CreateOrderRequest, items []LineItem, totalPrice float64) *Order {
	now := time.Now()
	order := &Order{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		TotalPrice:    totalPrice,
		Status:        OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.SyncProductIDs()
	return order
}

// SyncProductIDs rederiva a lista legada de IDs a partir dos itens
func (o *Order) SyncProductIDs() {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	o.ProductIDs = ids
}

// IsTerminal indica se o pedido não admite mais transições
func (o *Order) IsTerminal() bool {
	return TerminalStatus(o.Status)
}

// ViewableBy é a política de leitura: dono (por email) ou admin
func (o *Order) ViewableBy(claims auth.Claims) bool {
	return claims.IsAdmin() || claims.Username == o.Email
}

// ModifiableBy é a política de cancelamento: dono (por email) ou admin
func (o *Order) ModifiableBy(claims auth.Claims) bool {
	return o.ViewableBy(claims)
}

// LineItemRequest representa um item na requisição de criação
type LineItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderRequest representa a requisição para criar um pedido.
// Aceita o formato atual (products) e o legado (productIds).
type CreateOrderRequest struct {
	Name          string            `json:"name" binding:"required"`
	Email         string            `json:"email" binding:"required"`
	Phone         int64             `json:"phone"`
	Address       Address           `json:"address" binding:"required"`
	PaymentMethod string            `json:"paymentMethod"`
	Products      []LineItemRequest `json:"products"`
	ProductIDs    []string          `json:"productIds"`
}

// NormalizedItems funde as duas representações de entrada na forma
// canônica: quantidade mínima 1 e preço 0 quando ausente (o preço é
// preenchido depois a partir do catálogo).
func (r CreateOrderRequest) NormalizedItems() []LineItemRequest {
	if len(r.Products) > 0 {
		items := make([]LineItemRequest, 0, len(r.Products))
		for _, item := range r.Products {
			if item.Quantity < 1 {
				item.Quantity = 1
			}
			if item.Price < 0 {
				item.Price = 0
			}
			items = append(items, item)
		}
		return items
	}

	items := make([]LineItemRequest, 0, len(r.ProductIDs))
	for _, id := range r.ProductIDs {
		items = append(items, LineItemRequest{ProductID: id, Quantity: 1, Price: 0})
	}
	return items
}

// UpdateStatusRequest representa a requisição de transição de status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
