package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

// reportRepository runs the read-only dashboard aggregates.
type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) DashboardStats(ctx context.Context, lowStockThreshold int) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	err := r.db.GetContext(ctx, &stats.Revenue, `
		SELECT COALESCE(SUM(total_amount) FILTER (WHERE created_at::date = CURRENT_DATE), 0) AS today_revenue,
		       COALESCE(SUM(total_amount) FILTER (WHERE DATE_TRUNC('month', created_at) = DATE_TRUNC('month', CURRENT_DATE)), 0) AS month_revenue
		FROM rental_order
		WHERE status <> 'cancelled'`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.Orders, `
		SELECT COUNT(*) FILTER (WHERE status = 'pending') AS pending_orders,
		       COUNT(*) FILTER (WHERE status IN ('confirmed', 'preparing', 'delivering', 'rented', 'returning')) AS active_orders,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed_orders,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_orders,
		       COUNT(*) AS total_orders
		FROM rental_order`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.Products, `
		SELECT COUNT(*) AS total_products,
		       COALESCE(SUM(total_quantity), 0) AS total_quantity,
		       COALESCE(SUM(available_quantity), 0) AS available_quantity,
		       COALESCE(SUM(total_quantity - available_quantity), 0) AS rented_quantity
		FROM product`)
	if err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &stats.Customers, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.Overdue, `
		SELECT COUNT(*) FROM rental_order
		WHERE status = 'rented' AND COALESCE(actual_end_date, expected_end_date) < NOW()`)
	if err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &stats.LowStock, `SELECT COUNT(*) FROM product WHERE available_quantity < $1`, lowStockThreshold); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *reportRepository) RevenueChart(ctx context.Context, days int) ([]domain.RevenuePoint, error) {
	var points []domain.RevenuePoint
	err := r.db.SelectContext(ctx, &points, `
		SELECT d::date AS date,
		       COALESCE(SUM(o.total_amount), 0) AS revenue,
		       COUNT(o.id) AS orders
		FROM generate_series(CURRENT_DATE - ($1::int - 1), CURRENT_DATE, INTERVAL '1 day') d
		LEFT JOIN rental_order o ON o.created_at::date = d::date AND o.status <> 'cancelled'
		GROUP BY d
		ORDER BY d`, days)
	return points, err
}

func (r *reportRepository) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	var products []domain.TopProduct
	err := r.db.SelectContext(ctx, &products, `
		SELECT p.id AS product_id, p.name,
		       COUNT(DISTINCT d.rental_order_id) AS rental_count,
		       COALESCE(SUM(d.quantity), 0) AS units_rented,
		       COALESCE(SUM(d.subtotal), 0) AS revenue
		FROM product p
		JOIN rental_order_detail d ON d.product_id = p.id
		JOIN rental_order o ON o.id = d.rental_order_id AND o.status <> 'cancelled'
		GROUP BY p.id, p.name
		ORDER BY rental_count DESC, revenue DESC
		LIMIT $1`, limit)
	return products, err
}

func (r *reportRepository) OverdueAlerts(ctx context.Context, limit int) ([]domain.OverdueAlert, error) {
	var alerts []domain.OverdueAlert
	err := r.db.SelectContext(ctx, &alerts, `
		SELECT o.id AS order_id, o.order_number, COALESCE(u.name, '') AS customer_name,
		       COALESCE(o.actual_end_date, o.expected_end_date) AS due_date,
		       GREATEST(CURRENT_DATE - COALESCE(o.actual_end_date, o.expected_end_date)::date, 0) AS days_overdue
		FROM rental_order o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.status = 'rented' AND COALESCE(o.actual_end_date, o.expected_end_date) < NOW()
		ORDER BY due_date
		LIMIT $1`, limit)
	return alerts, err
}

func (r *reportRepository) LowStockAlerts(ctx context.Context, threshold, limit int) ([]domain.LowStockAlert, error) {
	var alerts []domain.LowStockAlert
	err := r.db.SelectContext(ctx, &alerts, `
		SELECT id AS product_id, name, available_quantity, total_quantity
		FROM product
		WHERE available_quantity < $1
		ORDER BY available_quantity, name
		LIMIT $2`, threshold, limit)
	return alerts, err
}

func (r *reportRepository) StatusDistribution(ctx context.Context, since time.Time) ([]domain.StatusCount, error) {
	var counts []domain.StatusCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT status, COUNT(*) AS count
		FROM rental_order
		WHERE created_at >= $1
		GROUP BY status
		ORDER BY count DESC`, since)
	return counts, err
}
