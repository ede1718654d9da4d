package orders

import (
	"testing"
	"time"

	"github.com/matheusmosca/bookstore-api/internal/auth"
)

func TestNewOrder(t *testing.T) {
	// Arrange
	req := CreateOrderRequest{
		Name:          "John Doe",
		Email:         "john@example.com",
		Phone:         5511999999999,
		Address:       Address{City: "São Paulo", Country: "BR"},
		PaymentMethod: "credit_card",
	}
	items := []LineItem{
		{ProductID: "book-1", Quantity: 2, Price: 10.5},
		{ProductID: "book-2", Quantity: 1, Price: 30},
	}

	// Act
	order := NewOrder(req, items, 51)

	// Assert
	if order.ID == "" {
		t.Error("Expected ID to be set")
	}
	if order.Email != req.Email {
		t.Errorf("Expected Email %s, got %s", req.Email, order.Email)
	}
	if order.TotalPrice != 51 {
		t.Errorf("Expected TotalPrice 51, got %f", order.TotalPrice)
	}
	if order.Status != OrderStatusPending {
		t.Errorf("Expected Status %s, got %s", OrderStatusPending, order.Status)
	}
	if len(order.ProductIDs) != 2 || order.ProductIDs[0] != "book-1" || order.ProductIDs[1] != "book-2" {
		t.Errorf("Expected ProductIDs derived from items, got %v", order.ProductIDs)
	}
	if order.CreatedAt.IsZero() || order.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	now := time.Now()
	if order.CreatedAt.After(now) || order.CreatedAt.Before(now.Add(-time.Second)) {
		t.Error("CreatedAt is not within expected time range")
	}
}

func TestOrderStatus(t *testing.T) {
	// Test that constants are defined correctly
	if OrderStatusPending != "pending" {
		t.Errorf("Expected OrderStatusPending to be 'pending', got %s", OrderStatusPending)
	}
	if OrderStatusProcessing != "processing" {
		t.Errorf("Expected OrderStatusProcessing to be 'processing', got %s", OrderStatusProcessing)
	}
	if OrderStatusShipped != "shipped" {
		t.Errorf("Expected OrderStatusShipped to be 'shipped', got %s", OrderStatusShipped)
	}
	if OrderStatusDelivered != "delivered" {
		t.Errorf("Expected OrderStatusDelivered to be 'delivered', got %s", OrderStatusDelivered)
	}
	if OrderStatusCancelled != "cancelled" {
		t.Errorf("Expected OrderStatusCancelled to be 'cancelled', got %s", OrderStatusCancelled)
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		if !ValidStatus(status) {
			t.Errorf("Expected %s to be valid", status)
		}
	}
	if ValidStatus("refunded") {
		t.Error("Expected 'refunded' to be invalid")
	}
	if ValidStatus("") {
		t.Error("Expected empty status to be invalid")
	}
}

func TestTerminalStatus(t *testing.T) {
	if !TerminalStatus(OrderStatusDelivered) {
		t.Error("Expected delivered to be terminal")
	}
	if !TerminalStatus(OrderStatusCancelled) {
		t.Error("Expected cancelled to be terminal")
	}
	for _, status := range []string{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped} {
		if TerminalStatus(status) {
			t.Errorf("Expected %s to not be terminal", status)
		}
	}
}

func TestNormalizedItems(t *testing.T) {
	// O formato atual tem precedência sobre o legado
	req := CreateOrderRequest{
		Products: []LineItemRequest{
			{ProductID: "book-1", Quantity: 0, Price: 12},
			{ProductID: "book-2", Quantity: 3, Price: -1},
		},
		ProductIDs: []string{"ignored"},
	}

	items := req.NormalizedItems()

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Quantity != 1 {
		t.Errorf("Expected zero quantity normalized to 1, got %d", items[0].Quantity)
	}
	if items[1].Price != 0 {
		t.Errorf("Expected negative price normalized to 0, got %f", items[1].Price)
	}
}

func TestNormalizedItemsLegacy(t *testing.T) {
	req := CreateOrderRequest{
		ProductIDs: []string{"book-1", "book-2", "book-3"},
	}

	items := req.NormalizedItems()

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Quantity != 1 {
			t.Errorf("Expected legacy item %d quantity 1, got %d", i, item.Quantity)
		}
		if item.Price != 0 {
			t.Errorf("Expected legacy item %d price 0, got %f", i, item.Price)
		}
	}
}

func TestSyncProductIDs(t *testing.T) {
	order := &Order{
		Items: []LineItem{
			{ProductID: "a", Quantity: 1},
			{ProductID: "b", Quantity: 2},
		},
	}

	order.SyncProductIDs()

	if len(order.ProductIDs) != 2 || order.ProductIDs[0] != "a" || order.ProductIDs[1] != "b" {
		t.Errorf("Expected ProductIDs [a b], got %v", order.ProductIDs)
	}
}

func TestViewableBy(t *testing.T) {
	order := &Order{Email: "owner@example.com"}

	owner := auth.Claims{UserID: "u1", Username: "owner@example.com", Role: auth.RoleUser}
	admin := auth.Claims{UserID: "u2", Username: "admin@example.com", Role: auth.RoleAdmin}
	other := auth.Claims{UserID: "u3", Username: "other@example.com", Role: auth.RoleUser}

	if !order.ViewableBy(owner) {
		t.Error("Expected owner to view the order")
	}
	if !order.ViewableBy(admin) {
		t.Error("Expected admin to view the order")
	}
	if order.ViewableBy(other) {
		t.Error("Expected non-owner non-admin to be rejected")
	}
}
