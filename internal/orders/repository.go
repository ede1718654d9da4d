package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/bookstore-api/internal/books"
)

// Repository define a interface para operações de banco de dados de pedidos
type Repository interface {
	// Create persiste o pedido e seus itens em uma única transação
	Create(ctx context.Context, order *Order) error

	// GetByID busca um pedido com itens populados com dados do catálogo
	GetByID(ctx context.Context, id string) (*Order, error)

	// ListByEmail busca os pedidos de um email, mais recentes primeiro
	ListByEmail(ctx context.Context, email string) ([]Order, error)

	// ListAll busca todos os pedidos, mais recentes primeiro
	ListAll(ctx context.Context) ([]Order, error)

	// TransitionStatus aplica um compare-and-swap de status: a escrita só
	// acontece se o status atual ainda for o esperado
	TransitionStatus(ctx context.Context, id, from, to string, deliveredAt *time.Time) error
}

// PostgresRepository implementa Repository usando PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository cria uma nova instância de PostgresRepository
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `id, name, email, phone, address_city, address_country, address_state,
	address_zipcode, payment_method, total_price, status, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var deliveredAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.Name, &o.Email, &o.Phone,
		&o.Address.City, &o.Address.Country, &o.Address.State, &o.Address.Zipcode,
		&o.PaymentMethod, &o.TotalPrice, &o.Status, &deliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	return &o, nil
}

// Create persiste o pedido e seus itens em uma única transação
func (r *PostgresRepository) Create(ctx context.Context, order *Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, name, email, phone, address_city, address_country,
			address_state, address_zipcode, payment_method, total_price, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, order.ID, order.Name, order.Email, order.Phone,
		order.Address.City, order.Address.Country, order.Address.State, order.Address.Zipcode,
		order.PaymentMethod, order.TotalPrice, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), order.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID busca um pedido pelo ID com itens populados
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	itemsByOrder, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[order.ID]
	order.SyncProductIDs()
	return order, nil
}

// ListByEmail busca os pedidos de um email de correlação
func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE email = $1 ORDER BY created_at DESC`, email)
}

// ListAll busca todos os pedidos
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Order
	var ids []string
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = itemsByOrder[result[i].ID]
		result[i].SyncProductIDs()
	}
	return result, nil
}

// loadItems carrega os itens dos pedidos com os campos de exibição do catálogo
func (r *PostgresRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]LineItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT oi.order_id, oi.product_id, oi.quantity, oi.price,
			b.id, b.title, b.author, b.price, b.new_price, b.cover_image
		FROM order_items oi
		LEFT JOIN books b ON b.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[string][]LineItem)
	for rows.Next() {
		var orderID string
		var item LineItem
		var bookID, title, author, coverImage sql.NullString
		var price, newPrice sql.NullFloat64

		err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price,
			&bookID, &title, &author, &price, &newPrice, &coverImage)
		if err != nil {
			return nil, err
		}

		if bookID.Valid {
			item.Book = &books.Book{
				ID:         bookID.String,
				Title:      title.String,
				Author:     author.String,
				Price:      price.Float64,
				NewPrice:   newPrice.Float64,
				CoverImage: coverImage.String,
			}
		}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], item)
	}
	return itemsByOrder, rows.Err()
}

// TransitionStatus aplica o compare-and-swap de status do pedido
func (r *PostgresRepository) TransitionStatus(ctx context.Context, id, from, to string, deliveredAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $3, delivered_at = COALESCE($4, delivered_at), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to, deliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// O status mudou entre a leitura e a escrita
		return ErrInvalidTransition
	}
	return nil
}
