package stats

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/bookstore-api/internal/httpapi"
)

// MonthlySales agrega vendas por mês
type MonthlySales struct {
	Month       string  `json:"month"`
	TotalSales  float64 `json:"totalSales"`
	TotalOrders int     `json:"totalOrders"`
}

// Dashboard é a visão agregada da administração
type Dashboard struct {
	TotalBooks    int            `json:"totalBooks"`
	TotalOrders   int            `json:"totalOrders"`
	TotalSales    float64        `json:"totalSales"`
	TrendingBooks int            `json:"trendingBooks"`
	MonthlySales  []MonthlySales `json:"monthlySales"`
}

// Repository calcula os agregados do painel administrativo
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository cria uma nova instância de Repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Dashboard monta a visão agregada; pedidos cancelados ficam fora das vendas
func (r *Repository) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM books WHERE trending),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status != 'cancelled')
	`).Scan(&d.TotalBooks, &d.TrendingBooks, &d.TotalOrders, &d.TotalSales)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT TO_CHAR(created_at, 'YYYY-MM') AS month,
			COALESCE(SUM(total_price), 0),
			COUNT(*)
		FROM orders
		WHERE status != 'cancelled'
		GROUP BY month
		ORDER BY month DESC
		LIMIT 12
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d.MonthlySales = []MonthlySales{}
	for rows.Next() {
		var m MonthlySales
		if err := rows.Scan(&m.Month, &m.TotalSales, &m.TotalOrders); err != nil {
			return nil, err
		}
		d.MonthlySales = append(d.MonthlySales, m)
	}
	return &d, rows.Err()
}

// Handler contém o handler HTTP do painel administrativo
type Handler struct {
	repository *Repository
	dev        bool
}

// NewHandler cria uma nova instância de Handler
func NewHandler(repository *Repository, dev bool) *Handler {
	return &Handler{repository: repository, dev: dev}
}

// Dashboard devolve os agregados da administração (somente admin)
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.repository.Dashboard(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to fetch admin stats", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
