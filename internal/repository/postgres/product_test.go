package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/repository/postgres"
)

var productRowColumns = []string{
	"id", "name", "character_name", "category_id", "description", "size", "images", "daily_price", "weekly_price",
	"deposit_amount", "total_quantity", "available_quantity", "condition", "created_at", "updated_at", "category_name",
}

func TestProductRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(productRowColumns).
			AddRow("p1", "Vampire Cape", "Dracula", "c1", "Long black cape", "L", "{front.jpg,back.jpg}", "150000.00", nil,
				"300000.00", 4, 2, "good", now, now, "Horror")

		mock.ExpectQuery("SELECT (.+) FROM product p LEFT JOIN category c ON c.id = p.category_id WHERE p.id = \\$1").
			WithArgs("p1").
			WillReturnRows(rows)

		p, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Vampire Cape", p.Name)
		assert.Equal(t, []string{"front.jpg", "back.jpg"}, p.Images)
		assert.True(t, p.DailyPrice.Equal(decimal.NewFromInt(150000)))
		assert.False(t, p.WeeklyPrice.Valid)
		assert.Equal(t, domain.ProductConditionGood, p.Condition)
		assert.Equal(t, "Horror", p.CategoryName)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM product p").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Reserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()

	t.Run("Enough stock", func(t *testing.T) {
		mock.ExpectExec("UPDATE product SET available_quantity = available_quantity - \\$2").
			WithArgs("p1", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Reserve(ctx, "p1", 2)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Short of stock", func(t *testing.T) {
		mock.ExpectExec("UPDATE product SET available_quantity = available_quantity - \\$2").
			WithArgs("p1", 5).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Reserve(ctx, "p1", 5)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Release is capped at total", func(t *testing.T) {
		mock.ExpectExec("LEAST\\(total_quantity, available_quantity \\+ \\$2\\)").
			WithArgs("p1", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Release(ctx, "p1", 2))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM product WHERE id = \\$1").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "p1"))

	mock.ExpectExec("DELETE FROM product WHERE id = \\$1").
		WithArgs("p2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "p2"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_CountActiveRentals(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rental_order_detail d").
		WithArgs("p1", pq.Array([]string{"confirmed", "preparing", "delivering", "rented"})).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveRentals(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()
	name := "Witch Hat"
	qty := 3

	mock.ExpectExec("UPDATE product SET name = \\$1, total_quantity = \\$2, updated_at = NOW\\(\\) WHERE id = \\$3").
		WithArgs(name, qty, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(ctx, "p1", repository.ProductPatch{Name: &name, TotalQuantity: &qty})
	assert.NoError(t, err)

	// An empty patch never reaches the database.
	assert.NoError(t, repo.Update(ctx, "p1", repository.ProductPatch{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
