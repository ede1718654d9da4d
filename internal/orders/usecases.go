package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/books"
	"github.com/matheusmosca/bookstore-api/internal/events"
)

// Catalog é a fatia do catálogo que o ledger de pedidos consome
type Catalog interface {
	GetByID(ctx context.Context, id string) (*books.Book, error)
	ReserveStock(ctx context.Context, id string, quantity int) error
	ReleaseStock(ctx context.Context, id string, quantity int) error
}

// OrderUseCase contém a lógica de negócio dos pedidos
type OrderUseCase struct {
	repository Repository
	catalog    Catalog
	publisher  events.Publisher
	log        *logrus.Entry

	tracer         trace.Tracer
	createdCounter metric.Int64Counter
	cancelCounter  metric.Int64Counter
	stockRejects   metric.Int64Counter
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(
	repository Repository,
	catalog Catalog,
	publisher events.Publisher,
	log *logrus.Entry,
) *OrderUseCase {
	meter := otel.Meter("orders")
	created, _ := meter.Int64Counter("orders_created_total")
	cancelled, _ := meter.Int64Counter("orders_cancelled_total")
	rejects, _ := meter.Int64Counter("orders_stock_rejections_total")

	return &OrderUseCase{
		repository:     repository,
		catalog:        catalog,
		publisher:      publisher,
		log:            log,
		tracer:         otel.Tracer("orders"),
		createdCounter: created,
		cancelCounter:  cancelled,
		stockRejects:   rejects,
	}
}

// Create cria um pedido: congela preços, reserva estoque item a item e
// desfaz toda reserva anterior se qualquer passo falhar (tudo-ou-nada).
func (uc *OrderUseCase) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	ctx, span := uc.tracer.Start(ctx, "create_order")
	defer span.End()

	requested := req.NormalizedItems()
	if len(requested) == 0 {
		return nil, ErrEmptyOrder
	}

	var reserved []LineItem
	release := func() {
		for _, item := range reserved {
			if err := uc.catalog.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				uc.log.Errorf("❌ Failed to release stock for %s: %v", item.ProductID, err)
			}
		}
	}

	var totalPrice float64
	for _, item := range requested {
		book, err := uc.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			release()
			span.RecordError(err)
			return nil, fmt.Errorf("resolving product %s: %w", item.ProductID, err)
		}

		price := item.Price
		if price <= 0 {
			price = book.EffectivePrice()
		}

		if err := uc.catalog.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
			release()
			span.RecordError(err)
			uc.stockRejects.Add(ctx, 1, metric.WithAttributes(attribute.String("product_id", item.ProductID)))
			return nil, fmt.Errorf("reserving stock for %q: %w", book.Title, err)
		}

		reserved = append(reserved, LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		totalPrice += price * float64(item.Quantity)
	}

	order := NewOrder(req, reserved, totalPrice)
	if err := uc.repository.Create(ctx, order); err != nil {
		release()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	span.SetAttributes(
		attribute.String("order_id", order.ID),
		attribute.Float64("total_price", order.TotalPrice),
		attribute.Int("items", len(order.Items)),
	)
	uc.createdCounter.Add(ctx, 1)
	uc.log.Infof("✅ Order created: %s (total %.2f)", order.ID, order.TotalPrice)

	uc.publishCreated(ctx, order)
	return order, nil
}

func (uc *OrderUseCase) publishCreated(ctx context.Context, order *Order) {
	event := events.OrderCreatedEvent{
		OrderID:    order.ID,
		Email:      order.Email,
		TotalPrice: order.TotalPrice,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, events.OrderItemEvent{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if err := uc.publisher.PublishOrderCreated(ctx, event); err != nil {
		uc.log.Warnf("⚠️ Failed to publish order.created: %v", err)
	}
}

func (uc *OrderUseCase) publishStatusChanged(ctx context.Context, order *Order, previous string) {
	event := events.OrderStatusChangedEvent{
		OrderID:        order.ID,
		Email:          order.Email,
		PreviousStatus: previous,
		Status:         order.Status,
	}
	if err := uc.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		uc.log.Warnf("⚠️ Failed to publish order.status_changed: %v", err)
	}
}

// GetByID busca um pedido; leitura permitida ao dono ou a um admin
func (uc *OrderUseCase) GetByID(ctx context.Context, id string, claims auth.Claims) (*Order, error) {
	order, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.ViewableBy(claims) {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListByEmail busca os pedidos de um email; dono ou admin
func (uc *OrderUseCase) ListByEmail(ctx context.Context, email string, claims auth.Claims) ([]Order, error) {
	if !claims.IsAdmin() && claims.Username != email {
		return nil, ErrForbidden
	}
	return uc.repository.ListByEmail(ctx, email)
}

// ListMine busca os pedidos do usuário autenticado
func (uc *OrderUseCase) ListMine(ctx context.Context, claims auth.Claims) ([]Order, error) {
	return uc.repository.ListByEmail(ctx, claims.Username)
}

// ListAll busca todos os pedidos (somente admin, garantido na rota)
func (uc *OrderUseCase) ListAll(ctx context.Context) ([]Order, error) {
	return uc.repository.ListAll(ctx)
}

// UpdateStatus aplica uma transição de status administrativa. Status
// terminais rejeitam qualquer transição; cancelamento delega para Cancel
// para que o estoque seja devolvido.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	if status == OrderStatusCancelled {
		return uc.cancel(ctx, order)
	}

	var deliveredAt *time.Time
	if status == OrderStatusDelivered && order.DeliveredAt == nil {
		now := time.Now()
		deliveredAt = &now
	}

	if err := uc.repository.TransitionStatus(ctx, order.ID, order.Status, status, deliveredAt); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = status
	if deliveredAt != nil {
		order.DeliveredAt = deliveredAt
	}

	uc.log.Infof("✅ Order %s status: %s -> %s", order.ID, previous, status)
	uc.publishStatusChanged(ctx, order, previous)
	return order, nil
}

// Cancel cancela um pedido (dono ou admin) devolvendo o estoque reservado
func (uc *OrderUseCase) Cancel(ctx context.Context, id string, claims auth.Claims) (*Order, error) {
	order, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.ModifiableBy(claims) {
		return nil, ErrForbidden
	}
	if order.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	return uc.cancel(ctx, order)
}

// cancel aplica o CAS para cancelled antes de devolver estoque, para que
// dois cancelamentos concorrentes não devolvam o estoque duas vezes
func (uc *OrderUseCase) cancel(ctx context.Context, order *Order) (*Order, error) {
	ctx, span := uc.tracer.Start(ctx, "cancel_order")
	defer span.End()

	if err := uc.repository.TransitionStatus(ctx, order.ID, order.Status, OrderStatusCancelled, nil); err != nil {
		span.RecordError(err)
		return nil, err
	}

	for _, item := range order.Items {
		if err := uc.catalog.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			uc.log.Errorf("❌ Failed to restore stock for %s: %v", item.ProductID, err)
		}
	}

	previous := order.Status
	order.Status = OrderStatusCancelled

	uc.cancelCounter.Add(ctx, 1)
	uc.log.Infof("↩️ Order cancelled: %s", order.ID)
	uc.publishStatusChanged(ctx, order, previous)
	return order, nil
}
