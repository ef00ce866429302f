package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
)

const productColumns = `p.id, p.name, COALESCE(p.character_name, ''), COALESCE(p.category_id::text, ''),
	COALESCE(p.description, ''), COALESCE(p.size, ''), COALESCE(p.images, '{}'), p.daily_price, p.weekly_price,
	p.deposit_amount, p.total_quantity, p.available_quantity, p.condition, p.created_at, p.updated_at`

var productSort = sortColumns{
	columns: map[string]string{
		"name":               "p.name",
		"daily_price":        "p.daily_price",
		"created_at":         "p.created_at",
		"available_quantity": "p.available_quantity",
	},
	fallback: "p.created_at",
}

var adminProductSort = sortColumns{
	columns: map[string]string{
		"name":               "p.name",
		"daily_price":        "p.daily_price",
		"created_at":         "p.created_at",
		"available_quantity": "p.available_quantity",
		"total_rentals":      "total_rentals",
	},
	fallback: "p.created_at",
}

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) repository.ProductRepository {
	return &productRepository{db: db}
}

// productDest lists scan targets in productColumns order.
func productDest(p *domain.Product) []any {
	return []any{
		&p.ID, &p.Name, &p.CharacterName, &p.CategoryID, &p.Description, &p.Size, pq.Array(&p.Images),
		&p.DailyPrice, &p.WeeklyPrice, &p.DepositAmount, &p.TotalQuantity, &p.AvailableQuantity,
		&p.Condition, &p.CreatedAt, &p.UpdatedAt,
	}
}

func scanProduct(row rowScanner, p *domain.Product, extra ...any) error {
	return row.Scan(append(productDest(p), extra...)...)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `, COALESCE(c.name, '')
	          FROM product p LEFT JOIN category c ON c.id = p.category_id WHERE p.id = $1`
	p := &domain.Product{}
	if err := scanProduct(r.db.QueryRowContext(ctx, query, id), p, &p.CategoryName); err != nil {
		return nil, err
	}
	return p, nil
}

func applyProductFilter(c *conditions, f repository.ProductFilter) {
	if f.CategoryID != "" {
		c.add("p.category_id::text = ?", f.CategoryID)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		c.add("(p.name ILIKE ? OR p.character_name ILIKE ?)", pattern, pattern)
	}
	if f.Condition != "" {
		c.add("p.condition = ?", f.Condition)
	}
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var c conditions
	applyProductFilter(&c, filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product p"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + productColumns + " FROM product p" + c.where() + productSort.orderBy(filter.Sort) + c.paginate(filter.Page)
	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *productRepository) ListWithStats(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductSummary, int, error) {
	var c conditions
	applyProductFilter(&c, filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product p"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + `, COALESCE(c.name, ''),
	                 COALESCE(s.total_rentals, 0) AS total_rentals, COALESCE(s.total_revenue, 0)
	          FROM product p
	          LEFT JOIN category c ON c.id = p.category_id
	          LEFT JOIN (
	              SELECT d.product_id, COUNT(DISTINCT d.rental_order_id) AS total_rentals, SUM(d.subtotal) AS total_revenue
	              FROM rental_order_detail d
	              JOIN rental_order o ON o.id = d.rental_order_id
	              WHERE o.status <> 'cancelled'
	              GROUP BY d.product_id
	          ) s ON s.product_id = p.id` + c.where() + adminProductSort.orderBy(filter.Sort) + c.paginate(filter.Page)

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.ProductSummary
	for rows.Next() {
		var s domain.ProductSummary
		if err := scanProduct(rows, &s.Product, &s.CategoryName, &s.TotalRentals, &s.TotalRevenue); err != nil {
			return nil, 0, err
		}
		products = append(products, s)
	}
	return products, total, rows.Err()
}

func (r *productRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, COALESCE(description, '') FROM category ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO product (id, name, character_name, category_id, description, size, images, daily_price,
	                               weekly_price, deposit_amount, total_quantity, available_quantity, condition, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	          RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, nullString(p.CharacterName), nullString(p.CategoryID), nullString(p.Description), nullString(p.Size),
		pq.Array(p.Images), p.DailyPrice, p.WeeklyPrice, p.DepositAmount, p.TotalQuantity, p.AvailableQuantity, p.Condition,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func productAssignments(patch repository.ProductPatch) *assignments {
	a := &assignments{}
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.CharacterName != nil {
		a.set("character_name", *patch.CharacterName)
	}
	if patch.CategoryID != nil {
		a.set("category_id", nullString(*patch.CategoryID))
	}
	if patch.Description != nil {
		a.set("description", *patch.Description)
	}
	if patch.Size != nil {
		a.set("size", *patch.Size)
	}
	if patch.Images != nil {
		a.set("images", pq.Array(patch.Images))
	}
	if patch.DailyPrice != nil {
		a.set("daily_price", *patch.DailyPrice)
	}
	if patch.WeeklyPrice != nil {
		a.set("weekly_price", *patch.WeeklyPrice)
	}
	if patch.DepositAmount != nil {
		a.set("deposit_amount", *patch.DepositAmount)
	}
	if patch.TotalQuantity != nil {
		a.set("total_quantity", *patch.TotalQuantity)
	}
	if patch.AvailableQuantity != nil {
		a.set("available_quantity", *patch.AvailableQuantity)
	}
	if patch.Condition != nil {
		a.set("condition", *patch.Condition)
	}
	return a
}

func (r *productRepository) Update(ctx context.Context, id string, patch repository.ProductPatch) error {
	a := productAssignments(patch)
	if a.empty() {
		return nil
	}
	query, args := a.update("product", "id = ?", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *productRepository) BulkUpdate(ctx context.Context, ids []string, patch repository.ProductPatch) (int64, error) {
	a := productAssignments(patch)
	if a.empty() || len(ids) == 0 {
		return 0, nil
	}
	query, args := a.update("product", "id = ANY(?)", pq.Array(ids))
	logger.DatabaseCall("BulkUpdateProducts", query, "count", len(ids))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("BulkUpdateProducts", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("BulkUpdateProducts", n, err)
	return n, err
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *productRepository) UpdateCondition(ctx context.Context, id string, condition domain.ProductCondition) error {
	_, err := r.db.ExecContext(ctx, `UPDATE product SET condition = $1, updated_at = NOW() WHERE id = $2`, condition, id)
	return err
}

func (r *productRepository) CountActiveRentals(ctx context.Context, id string) (int, error) {
	query := `SELECT COUNT(*)
	          FROM rental_order_detail d
	          JOIN rental_order o ON o.id = d.rental_order_id
	          WHERE d.product_id = $1 AND o.status = ANY($2)`
	var count int
	err := r.db.QueryRowContext(ctx, query, id, pq.Array(statusStrings(domain.ProductBlockingStatuses))).Scan(&count)
	return count, err
}

func (r *productRepository) Stats(ctx context.Context, id string) (*domain.ProductStats, error) {
	query := `SELECT p.id,
	                 COUNT(DISTINCT d.rental_order_id) FILTER (WHERE o.status <> 'cancelled'),
	                 COALESCE(SUM(d.quantity) FILTER (WHERE o.status <> 'cancelled'), 0),
	                 COUNT(DISTINCT d.rental_order_id) FILTER (WHERE o.status = ANY($2)),
	                 COALESCE(SUM(d.subtotal) FILTER (WHERE o.status <> 'cancelled'), 0),
	                 COUNT(*) FILTER (WHERE d.return_condition IN ('damaged', 'broken')),
	                 MAX(o.created_at)
	          FROM product p
	          LEFT JOIN rental_order_detail d ON d.product_id = p.id
	          LEFT JOIN rental_order o ON o.id = d.rental_order_id
	          WHERE p.id = $1
	          GROUP BY p.id`
	s := &domain.ProductStats{}
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id, pq.Array(statusStrings(domain.ProductBlockingStatuses))).
		Scan(&s.ProductID, &s.TotalRentals, &s.TotalUnitsRented, &s.ActiveRentals, &s.TotalRevenue, &s.DamagedReturns, &last)
	if err != nil {
		return nil, err
	}
	s.LastRentedAt = timePtr(last)
	return s, nil
}

func (r *productRepository) CheckAvailability(ctx context.Context, id string, quantity int, start, end time.Time) (bool, error) {
	var available bool
	err := r.db.QueryRowContext(ctx, `SELECT check_product_availability($1, $2, $3, $4)`,
		id, quantity, start.Format(dateLayout), end.Format(dateLayout)).Scan(&available)
	if err != nil {
		return false, fmt.Errorf("availability check failed: %w", err)
	}
	return available, nil
}

func (r *productRepository) Reserve(ctx context.Context, id string, quantity int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE product SET available_quantity = available_quantity - $2, updated_at = NOW()
		 WHERE id = $1 AND available_quantity >= $2`, id, quantity)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *productRepository) Release(ctx context.Context, id string, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE product SET available_quantity = LEAST(total_quantity, available_quantity + $2), updated_at = NOW()
		 WHERE id = $1`, id, quantity)
	return err
}

const dateLayout = "2006-01-02"

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// expectRows maps an update or delete that matched nothing onto sql.ErrNoRows.
func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
