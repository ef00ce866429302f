package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

const orderColumns = `o.id, o.user_id, o.order_number, o.expected_start_date, o.expected_end_date,
	o.actual_start_date, o.actual_end_date, o.actual_return_date, o.rental_days, o.subtotal, o.deposit_total,
	o.total_amount, o.late_fee, o.damage_fee, o.refund_amount, o.shipping_address, o.delivery_method,
	o.payment_method, o.status, o.payment_status, o.notes, o.created_at, o.updated_at`

var orderSort = sortColumns{
	columns: map[string]string{
		"order_number":        "o.order_number",
		"created_at":          "o.created_at",
		"expected_start_date": "o.expected_start_date",
		"total_amount":        "o.total_amount",
		"status":              "o.status",
	},
	fallback: "o.created_at",
}

type orderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) repository.OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row rowScanner, extra ...any) (*domain.RentalOrder, error) {
	o := &domain.RentalOrder{}
	var actualStart, actualEnd, actualReturn sql.NullTime
	var notes sql.NullString
	dest := []any{
		&o.ID, &o.UserID, &o.OrderNumber, &o.ExpectedStartDate, &o.ExpectedEndDate,
		&actualStart, &actualEnd, &actualReturn, &o.RentalDays, &o.Subtotal, &o.DepositTotal,
		&o.TotalAmount, &o.LateFee, &o.DamageFee, &o.RefundAmount, &o.ShippingAddress, &o.DeliveryMethod,
		&o.PaymentMethod, &o.Status, &o.PaymentStatus, &notes, &o.CreatedAt, &o.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	o.ActualStartDate = timePtr(actualStart)
	o.ActualEndDate = timePtr(actualEnd)
	o.ActualReturnDate = timePtr(actualReturn)
	o.Notes = notes.String
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.RentalOrder) error {
	query := `INSERT INTO rental_order (id, user_id, order_number, expected_start_date, expected_end_date, rental_days,
	                                    subtotal, deposit_total, total_amount, late_fee, damage_fee, refund_amount,
	                                    shipping_address, delivery_method, payment_method, status, payment_status, notes,
	                                    created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, 0, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	          RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		o.ID, o.UserID, o.OrderNumber, o.ExpectedStartDate, o.ExpectedEndDate, o.RentalDays,
		o.Subtotal, o.DepositTotal, o.TotalAmount,
		o.ShippingAddress, o.DeliveryMethod, o.PaymentMethod, o.Status, o.PaymentStatus, nullString(o.Notes),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) CreateDetail(ctx context.Context, d *domain.RentalOrderDetail) error {
	query := `INSERT INTO rental_order_detail (id, rental_order_id, product_id, quantity, daily_price, rental_days, subtotal, deposit_amount)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.RentalOrderID, d.ProductID, d.Quantity, d.DailyPrice, d.RentalDays, d.Subtotal, d.DepositAmount)
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.RentalOrder, error) {
	query := `SELECT ` + orderColumns + `, COALESCE(u.name, ''), COALESCE(u.email, '')
	          FROM rental_order o LEFT JOIN users u ON u.id = o.user_id
	          WHERE o.id = $1`
	var name, email string
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id), &name, &email)
	if err != nil {
		return nil, err
	}
	o.CustomerName, o.CustomerEmail = name, email
	return o, nil
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id string) (*domain.RentalOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rental_order o WHERE o.id = $1 FOR UPDATE`
	return scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.RentalOrder, error) {
	query := `SELECT ` + orderColumns + `,
	                 (SELECT COUNT(*) FROM rental_order_detail d WHERE d.rental_order_id = o.id)
	          FROM rental_order o
	          WHERE o.user_id = $1
	          ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.RentalOrder
	for rows.Next() {
		var count int
		o, err := scanOrder(rows, &count)
		if err != nil {
			return nil, err
		}
		o.ItemsCount = count
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.RentalOrder, int, error) {
	var c conditions
	if filter.Status != "" {
		c.add("o.status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		c.add("o.payment_status = ?", filter.PaymentStatus)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		c.add("(o.order_number ILIKE ? OR u.name ILIKE ? OR u.email ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.StartDate != nil {
		c.add("o.expected_start_date >= ?", filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		c.add("o.expected_end_date <= ?", filter.EndDate.Format(dateLayout))
	}

	from := " FROM rental_order o LEFT JOIN users u ON u.id = o.user_id"

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + `, COALESCE(u.name, ''), COALESCE(u.email, ''),
	                 (SELECT COUNT(*) FROM rental_order_detail d WHERE d.rental_order_id = o.id)` +
		from + c.where() + orderSort.orderBy(filter.Sort) + c.paginate(filter.Page)

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.RentalOrder
	for rows.Next() {
		var name, email string
		var count int
		o, err := scanOrder(rows, &name, &email, &count)
		if err != nil {
			return nil, 0, err
		}
		o.CustomerName, o.CustomerEmail, o.ItemsCount = name, email, count
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *orderRepository) ListDetails(ctx context.Context, orderID string) ([]domain.RentalOrderDetail, error) {
	query := `SELECT d.id, d.rental_order_id, d.product_id, COALESCE(p.name, ''), COALESCE(c.name, ''),
	                 d.quantity, d.daily_price, d.rental_days, d.subtotal, d.deposit_amount,
	                 COALESCE(d.return_condition, ''), COALESCE(d.condition_notes, '')
	          FROM rental_order_detail d
	          LEFT JOIN product p ON p.id = d.product_id
	          LEFT JOIN category c ON c.id = p.category_id
	          WHERE d.rental_order_id = $1
	          ORDER BY d.id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.RentalOrderDetail
	for rows.Next() {
		var d domain.RentalOrderDetail
		if err := rows.Scan(&d.ID, &d.RentalOrderID, &d.ProductID, &d.ProductName, &d.CategoryName,
			&d.Quantity, &d.DailyPrice, &d.RentalDays, &d.Subtotal, &d.DepositAmount,
			&d.ReturnCondition, &d.ConditionNotes); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, o *domain.RentalOrder) error {
	query := `UPDATE rental_order
	          SET status = $1, actual_start_date = $2, actual_end_date = $3, notes = $4, updated_at = NOW()
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query,
		o.Status, nullTime(o.ActualStartDate), nullTime(o.ActualEndDate), nullString(o.Notes), o.ID)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_order SET payment_status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// Complete persists the settlement of a returned order.
func (r *orderRepository) Complete(ctx context.Context, o *domain.RentalOrder) error {
	query := `UPDATE rental_order
	          SET status = $1, payment_status = $2, actual_return_date = $3, late_fee = $4, damage_fee = $5,
	              refund_amount = $6, notes = $7, updated_at = NOW()
	          WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		o.Status, o.PaymentStatus, nullTime(o.ActualReturnDate), o.LateFee, o.DamageFee, o.RefundAmount,
		nullString(o.Notes), o.ID)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *orderRepository) UpdateDetailCondition(ctx context.Context, orderID, productID string, condition domain.ProductCondition, notes string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_order_detail SET return_condition = $1, condition_notes = $2
		 WHERE rental_order_id = $3 AND product_id = $4`,
		condition, nullString(notes), orderID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *orderRepository) AverageDailyPrice(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var avg decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(daily_price), 0) FROM rental_order_detail WHERE rental_order_id = $1`, orderID).Scan(&avg)
	return avg, err
}

func (r *orderRepository) CountByUserInStatuses(ctx context.Context, userID string, statuses []domain.OrderStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rental_order WHERE user_id = $1 AND status = ANY($2)`,
		userID, pq.Array(statusStrings(statuses))).Scan(&count)
	return count, err
}

func (r *orderRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.OverdueOrder, error) {
	query := `SELECT o.id, o.order_number, o.user_id, u.name, u.email, COALESCE(o.actual_end_date, o.expected_end_date) AS due
	          FROM rental_order o
	          JOIN users u ON u.id = o.user_id
	          WHERE o.status = 'rented' AND COALESCE(o.actual_end_date, o.expected_end_date) < $1
	          ORDER BY due`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.OverdueOrder
	for rows.Next() {
		var o domain.OverdueOrder
		if err := rows.Scan(&o.OrderID, &o.OrderNumber, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.DueDate); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) CountPendingCreatedBefore(ctx context.Context, before time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rental_order WHERE status = 'pending' AND created_at < $1`, before).Scan(&count)
	return count, err
}
