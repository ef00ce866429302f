package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type activityLogRepository struct {
	db DBTX
}

func NewActivityLogRepository(db DBTX) repository.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to encode activity details: %w", err)
	}
	query := `INSERT INTO activity_logs (id, admin_id, action, entity_type, entity_id, details, ip_address, user_agent, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	          RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.ID, nullString(entry.AdminID), entry.Action, entry.EntityType, nullString(entry.EntityID),
		details, nullString(entry.IPAddress), nullString(entry.UserAgent),
	).Scan(&entry.CreatedAt)
}
