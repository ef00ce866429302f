package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

const cartColumns = `c.id, c.user_id, c.product_id, c.quantity, p.name, COALESCE(p.images, '{}'), COALESCE(p.size, ''),
	p.daily_price, p.deposit_amount, p.available_quantity, c.created_at`

type cartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) repository.CartRepository {
	return &cartRepository{db: db}
}

func scanCartLine(row rowScanner) (*domain.CartLine, error) {
	l := &domain.CartLine{}
	err := row.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.ProductName, pq.Array(&l.Images), &l.Size,
		&l.DailyPrice, &l.DepositAmount, &l.AvailableQuantity, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	query := `SELECT ` + cartColumns + `
	          FROM cart c JOIN product p ON p.id = c.product_id
	          WHERE c.user_id = $1
	          ORDER BY c.created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}

func (r *cartRepository) getLine(ctx context.Context, userID, lineID string) (*domain.CartLine, error) {
	query := `SELECT ` + cartColumns + `
	          FROM cart c JOIN product p ON p.id = c.product_id
	          WHERE c.id = $1 AND c.user_id = $2`
	return scanCartLine(r.db.QueryRowContext(ctx, query, lineID, userID))
}

// Upsert adds quantity to the user's line for the product, creating the line if needed.
func (r *cartRepository) Upsert(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	query := `INSERT INTO cart (id, user_id, product_id, quantity, created_at)
	          VALUES ($1, $2, $3, $4, NOW())
	          ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity
	          RETURNING id`
	var id string
	if err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, productID, quantity).Scan(&id); err != nil {
		return nil, err
	}
	return r.getLine(ctx, userID, id)
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE cart SET quantity = $1 WHERE id = $2 AND user_id = $3`, quantity, lineID, userID)
	if err != nil {
		return nil, err
	}
	if err := expectRows(res); err != nil {
		return nil, err
	}
	return r.getLine(ctx, userID, lineID)
}

func (r *cartRepository) Remove(ctx context.Context, userID, lineID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE id = $1 AND user_id = $2`, lineID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	return err
}
