package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/repository/postgres"
)

var orderRowColumns = []string{
	"id", "user_id", "order_number", "expected_start_date", "expected_end_date", "actual_start_date", "actual_end_date",
	"actual_return_date", "rental_days", "subtotal", "deposit_total", "total_amount", "late_fee", "damage_fee",
	"refund_amount", "shipping_address", "delivery_method", "payment_method", "status", "payment_status", "notes",
	"created_at", "updated_at",
}

func TestOrderRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	start := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(orderRowColumns).
		AddRow("o1", "u1", "RO-20240105-0001", start, end, start, nil, nil, 3, "450000", "300000", "750000",
			"0", "0", "0", "12 Main St", "delivery", "cod", "rented", "paid", nil, start, start)
	mock.ExpectQuery("SELECT (.+) FROM rental_order o WHERE o.id = \\$1 FOR UPDATE").
		WithArgs("o1").
		WillReturnRows(rows)

	o, err := repo.GetForUpdate(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusRented, o.Status)
	assert.Equal(t, domain.PaymentStatusPaid, o.PaymentStatus)
	require.NotNil(t, o.ActualStartDate)
	assert.Equal(t, start, *o.ActualStartDate)
	assert.Nil(t, o.ActualEndDate)
	assert.Empty(t, o.Notes)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(750000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Complete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	returned := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	o := &domain.RentalOrder{
		ID:               "o1",
		Status:           domain.OrderStatusCompleted,
		PaymentStatus:    domain.PaymentStatusPaid,
		ActualReturnDate: &returned,
		LateFee:          decimal.NewFromInt(450000),
		DamageFee:        decimal.NewFromInt(100000),
		RefundAmount:     decimal.NewFromInt(450000),
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE rental_order\\s+SET status = \\$1, payment_status = \\$2").
			WithArgs("completed", "paid", returned, o.LateFee, o.DamageFee, o.RefundAmount, sqlmock.AnyArg(), "o1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Complete(context.Background(), o))
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE rental_order").
			WillReturnError(errors.New("connection reset"))

		assert.Error(t, repo.Complete(context.Background(), o))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	now := time.Now()
	filter := repository.OrderFilter{
		Status: domain.OrderStatusPending,
		Search: "RO-2024",
		Sort:   repository.Sort{Field: "total_amount", Desc: true},
		Page:   repository.Page{Page: 2, Limit: 10},
	}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rental_order o LEFT JOIN users u ON u.id = o.user_id WHERE o.status = \\$1 AND \\(o.order_number ILIKE \\$2").
		WithArgs("pending", "%RO-2024%", "%RO-2024%", "%RO-2024%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	rows := sqlmock.NewRows(append(append([]string{}, orderRowColumns...), "customer_name", "customer_email", "items_count")).
		AddRow("o1", "u1", "RO-20240105-0001", now, now, nil, nil, nil, 3, "450000", "300000", "750000",
			"0", "0", "0", "12 Main St", "pickup", "cod", "pending", "unpaid", "ring first", now, now,
			"Ann", "ann@example.com", 2)
	mock.ExpectQuery("ORDER BY o.total_amount DESC LIMIT \\$5 OFFSET \\$6").
		WithArgs("pending", "%RO-2024%", "%RO-2024%", "%RO-2024%", 10, 10).
		WillReturnRows(rows)

	orders, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "Ann", orders[0].CustomerName)
	assert.Equal(t, 2, orders[0].ItemsCount)
	assert.Equal(t, "ring first", orders[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := postgres.NewStore(db, "postgres")
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE product SET available_quantity").
			WithArgs("p1", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithTx(ctx, func(uow repository.UnitOfWork) error {
			ok, err := uow.Products().Reserve(ctx, "p1", 1)
			assert.True(t, ok)
			return err
		})
		assert.NoError(t, err)
	})

	t.Run("Rollback on error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		sentinel := errors.New("out of stock")
		err := store.WithTx(ctx, func(uow repository.UnitOfWork) error {
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("Rollback on panic", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = store.WithTx(ctx, func(uow repository.UnitOfWork) error {
				panic("boom")
			})
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
