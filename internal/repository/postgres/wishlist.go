package postgres

import (
	"context"

	"github.com/google/uuid"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type wishlistRepository struct {
	db DBTX
}

func NewWishlistRepository(db DBTX) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	query := `SELECT w.id, w.user_id, w.created_at, ` + productColumns + `
	          FROM wishlist w JOIN product p ON p.id = w.product_id
	          WHERE w.user_id = $1
	          ORDER BY w.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		p := &domain.Product{}
		dest := []any{&item.ID, &item.UserID, &item.CreatedAt}
		if err := rows.Scan(append(dest, productDest(p)...)...); err != nil {
			return nil, err
		}
		item.ProductID = p.ID
		item.Product = p
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add is idempotent: adding a product twice returns the existing entry.
func (r *wishlistRepository) Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	query := `INSERT INTO wishlist (id, user_id, product_id, created_at)
	          VALUES ($1, $2, $3, NOW())
	          ON CONFLICT (user_id, product_id) DO UPDATE SET user_id = EXCLUDED.user_id
	          RETURNING id, created_at`
	item := &domain.WishlistItem{UserID: userID, ProductID: productID}
	if err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, productID).Scan(&item.ID, &item.CreatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
