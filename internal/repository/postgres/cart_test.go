package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costume-rental-backend/internal/repository/postgres"
)

var cartRowColumns = []string{
	"id", "user_id", "product_id", "quantity", "name", "images", "size", "daily_price", "deposit_amount",
	"available_quantity", "created_at",
}

func TestCartRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewCartRepository(db)

	mock.ExpectQuery("INSERT INTO cart (.+) ON CONFLICT \\(user_id, product_id\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "u1", "p1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))
	mock.ExpectQuery("SELECT (.+) FROM cart c JOIN product p ON p.id = c.product_id\\s+WHERE c.id = \\$1 AND c.user_id = \\$2").
		WithArgs("c1", "u1").
		WillReturnRows(sqlmock.NewRows(cartRowColumns).
			AddRow("c1", "u1", "p1", 3, "Pirate Coat", "{}", "M", "120000", "200000", 4, time.Now()))

	line, err := repo.Upsert(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "Pirate Coat", line.ProductName)
	assert.Empty(t, line.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_UpdateQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewCartRepository(db)

	// A line owned by another user matches nothing.
	mock.ExpectExec("UPDATE cart SET quantity = \\$1 WHERE id = \\$2 AND user_id = \\$3").
		WithArgs(1, "c1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.UpdateQuantity(context.Background(), "u2", "c1", 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewCartRepository(db)

	mock.ExpectExec("DELETE FROM cart WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("c1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.Remove(context.Background(), "u1", "c1")
	assert.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
