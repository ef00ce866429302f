package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.ProductRepository
	repository.CartRepository
	repository.WishlistRepository
	repository.OrderRepository
	repository.RentalHistoryRepository
	repository.ActivityLogRepository
	repository.UserRepository
	repository.AdminRepository
	repository.ReportRepository
}

// NewStore binds every repository to db. driverName is passed to sqlx for the report queries.
func NewStore(db *sql.DB, driverName string) *Store {
	return &Store{
		db:                      db,
		ProductRepository:       NewProductRepository(db),
		CartRepository:          NewCartRepository(db),
		WishlistRepository:      NewWishlistRepository(db),
		OrderRepository:         NewOrderRepository(db),
		RentalHistoryRepository: NewRentalHistoryRepository(db),
		ActivityLogRepository:   NewActivityLogRepository(db),
		UserRepository:          NewUserRepository(db),
		AdminRepository:         NewAdminRepository(db),
		ReportRepository:        NewReportRepository(sqlx.NewDb(db, driverName)),
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx implements repository.Transactor.
func (s *Store) WithTx(ctx context.Context, fn func(uow repository.UnitOfWork) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newUnitOfWork(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type unitOfWork struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	history  repository.RentalHistoryRepository
	activity repository.ActivityLogRepository
	users    repository.UserRepository
	admins   repository.AdminRepository
}

func newUnitOfWork(tx *sql.Tx) *unitOfWork {
	return &unitOfWork{
		products: NewProductRepository(tx),
		carts:    NewCartRepository(tx),
		orders:   NewOrderRepository(tx),
		history:  NewRentalHistoryRepository(tx),
		activity: NewActivityLogRepository(tx),
		users:    NewUserRepository(tx),
		admins:   NewAdminRepository(tx),
	}
}

func (u *unitOfWork) Products() repository.ProductRepository { return u.products }
func (u *unitOfWork) Carts() repository.CartRepository { return u.carts }
func (u *unitOfWork) Orders() repository.OrderRepository { return u.orders }
func (u *unitOfWork) History() repository.RentalHistoryRepository { return u.history }
func (u *unitOfWork) Activity() repository.ActivityLogRepository { return u.activity }
func (u *unitOfWork) Users() repository.UserRepository { return u.users }
func (u *unitOfWork) Admins() repository.AdminRepository { return u.admins }
