package postgres

import (
	"context"

	"github.com/google/uuid"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type rentalHistoryRepository struct {
	db DBTX
}

func NewRentalHistoryRepository(db DBTX) repository.RentalHistoryRepository {
	return &rentalHistoryRepository{db: db}
}

func (r *rentalHistoryRepository) Create(ctx context.Context, h *domain.RentalHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	query := `INSERT INTO rental_history (id, product_id, rental_order_id, user_id, rental_start_date, rental_end_date,
	                                      actual_return_date, condition_after, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	          RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		h.ID, h.ProductID, h.RentalOrderID, h.UserID, h.RentalStartDate, h.RentalEndDate,
		h.ActualReturnDate, h.ConditionAfter, nullString(h.Notes),
	).Scan(&h.CreatedAt)
}

func (r *rentalHistoryRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.RentalHistory, error) {
	query := `SELECT h.id, h.product_id, COALESCE(p.name, ''), h.rental_order_id, h.user_id, h.rental_start_date,
	                 h.rental_end_date, h.actual_return_date, h.condition_after, COALESCE(h.notes, ''), h.created_at
	          FROM rental_history h
	          LEFT JOIN product p ON p.id = h.product_id
	          WHERE h.rental_order_id = $1
	          ORDER BY h.created_at`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.RentalHistory
	for rows.Next() {
		var h domain.RentalHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.ProductName, &h.RentalOrderID, &h.UserID, &h.RentalStartDate,
			&h.RentalEndDate, &h.ActualReturnDate, &h.ConditionAfter, &h.Notes, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
