package postgres

import (
	"context"
	"database/sql"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

const userColumns = `u.id, u.email, u.password_hash, u.name, COALESCE(u.phone, ''), COALESCE(u.address, ''), u.created_at, u.updated_at`

var userSort = sortColumns{
	columns: map[string]string{
		"name":         "u.name",
		"email":        "u.email",
		"created_at":   "u.created_at",
		"total_orders": "total_orders",
		"total_spent":  "total_spent",
	},
	fallback: "u.created_at",
}

// ErrDuplicateEmail is returned when an insert or update collides with an existing email.
var ErrDuplicateEmail = domain.Conflict("Email already exists")

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner, extra ...any) (*domain.User, error) {
	u := &domain.User{}
	dest := []any{&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Address, &u.CreatedAt, &u.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, name, phone, address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, nullString(u.Phone), nullString(u.Address)).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE LOWER(u.email) = LOWER($1)`, email))
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.CustomerSummary, int, error) {
	var c conditions
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		c.add("(u.name ILIKE ? OR u.email ILIKE ? OR u.phone ILIKE ?)", pattern, pattern, pattern)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users u"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + `,
	                 COUNT(o.id) AS total_orders,
	                 COALESCE(SUM(o.total_amount) FILTER (WHERE o.status <> 'cancelled'), 0) AS total_spent
	          FROM users u
	          LEFT JOIN rental_order o ON o.user_id = u.id` + c.where() + `
	          GROUP BY u.id` + userSort.orderBy(filter.Sort) + c.paginate(filter.Page)

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []domain.CustomerSummary
	for rows.Next() {
		var s domain.CustomerSummary
		u, err := scanUser(rows, &s.TotalOrders, &s.TotalSpent)
		if err != nil {
			return nil, 0, err
		}
		s.User = *u
		customers = append(customers, s)
	}
	return customers, total, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id string, patch repository.UserPatch) error {
	a := &assignments{}
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.Email != nil {
		a.set("email", *patch.Email)
	}
	if patch.Phone != nil {
		a.set("phone", *patch.Phone)
	}
	if patch.Address != nil {
		a.set("address", *patch.Address)
	}
	if a.empty() {
		return nil
	}
	query, args := a.update("users", "id = ?", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *userRepository) Stats(ctx context.Context, id string) (*domain.CustomerStats, error) {
	query := `SELECT u.id,
	                 COUNT(o.id),
	                 COUNT(o.id) FILTER (WHERE o.status IN ('confirmed', 'preparing', 'delivering', 'rented', 'returning')),
	                 COUNT(o.id) FILTER (WHERE o.status = 'completed'),
	                 COUNT(o.id) FILTER (WHERE o.status = 'cancelled'),
	                 COALESCE(SUM(o.total_amount) FILTER (WHERE o.status <> 'cancelled'), 0),
	                 COALESCE(SUM(o.late_fee), 0),
	                 COALESCE(SUM(o.damage_fee), 0),
	                 MAX(o.created_at)
	          FROM users u
	          LEFT JOIN rental_order o ON o.user_id = u.id
	          WHERE u.id = $1
	          GROUP BY u.id`
	s := &domain.CustomerStats{}
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.UserID, &s.TotalOrders, &s.ActiveOrders, &s.CompletedOrders,
		&s.CancelledOrders, &s.TotalSpent, &s.TotalLateFees, &s.TotalDamageFees, &last)
	if err != nil {
		return nil, err
	}
	s.LastOrderAt = timePtr(last)
	return s, nil
}
