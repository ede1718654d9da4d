package events

import "context"

// Filas de eventos do ciclo de vida de pedidos
const (
	OrderCreatedQueue       = "order.created"
	OrderStatusChangedQueue = "order.status_changed"
)

// OrderItemEvent representa um item de pedido dentro de um evento
type OrderItemEvent struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderCreatedEvent é emitido quando um pedido é criado
type OrderCreatedEvent struct {
	OrderID    string           `json:"orderId"`
	Email      string           `json:"email"`
	TotalPrice float64          `json:"totalPrice"`
	Items      []OrderItemEvent `json:"items"`
}

// OrderStatusChangedEvent é emitido quando o status de um pedido muda
type OrderStatusChangedEvent struct {
	OrderID        string `json:"orderId"`
	Email          string `json:"email"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}

// Publisher abstrai a publicação de eventos de pedidos. A publicação é
// sempre best-effort: falha de broker não falha a requisição.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error
}

// NopPublisher descarta eventos; usado quando o broker não está configurado
type NopPublisher struct{}

// PublishOrderCreated descarta o evento
func (NopPublisher) PublishOrderCreated(context.Context, OrderCreatedEvent) error {
	return nil
}

// PublishOrderStatusChanged descarta o evento
func (NopPublisher) PublishOrderStatusChanged(context.Context, OrderStatusChangedEvent) error {
	return nil
}
