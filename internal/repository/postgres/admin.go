package postgres

import (
	"context"
	"database/sql"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

const adminColumns = `id, username, email, password_hash, COALESCE(full_name, ''), role, is_active, last_login, created_at, updated_at`

// ErrDuplicateAdmin is returned when a username or email is already taken.
var ErrDuplicateAdmin = domain.Conflict("Username or email already exists")

type adminRepository struct {
	db DBTX
}

func NewAdminRepository(db DBTX) repository.AdminRepository {
	return &adminRepository{db: db}
}

func scanAdmin(row rowScanner) (*domain.AdminUser, error) {
	a := &domain.AdminUser{}
	var lastLogin sql.NullTime
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FullName, &a.Role, &a.IsActive,
		&lastLogin, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.LastLogin = timePtr(lastLogin)
	return a, nil
}

func (r *adminRepository) Create(ctx context.Context, a *domain.AdminUser) error {
	query := `INSERT INTO admin_users (id, username, email, password_hash, full_name, role, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, a.ID, a.Username, a.Email, a.PasswordHash, nullString(a.FullName), a.Role, a.IsActive).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateAdmin
	}
	return err
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	return scanAdmin(r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, id))
}

// GetByLogin matches either the username or the email.
func (r *adminRepository) GetByLogin(ctx context.Context, login string) (*domain.AdminUser, error) {
	return scanAdmin(r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE username = $1 OR LOWER(email) = LOWER($1)`, login))
}

func (r *adminRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+adminColumns+` FROM admin_users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.AdminUser
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *a)
	}
	return admins, rows.Err()
}

func (r *adminRepository) Update(ctx context.Context, id string, patch repository.AdminPatch) error {
	a := &assignments{}
	if patch.Email != nil {
		a.set("email", *patch.Email)
	}
	if patch.FullName != nil {
		a.set("full_name", *patch.FullName)
	}
	if patch.Role != nil {
		a.set("role", *patch.Role)
	}
	if patch.IsActive != nil {
		a.set("is_active", *patch.IsActive)
	}
	if a.empty() {
		return nil
	}
	query, args := a.update("admin_users", "id = ?", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicateAdmin
	}
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admin_users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *adminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admin_users SET last_login = $1 WHERE id = $2`, at, id)
	return err
}
