package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	t.Run("Calendar date", func(t *testing.T) {
		d, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Timestamp", func(t *testing.T) {
		d, err := ParseDate("2024-01-15T10:30:00Z")
		assert.NoError(t, err)
		assert.Equal(t, 10, d.Hour())
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseDate("  ")
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseDate("not a date")
		assert.Error(t, err)
	})
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		start, end string
		expected   int
	}{
		{"2024-01-01", "2024-01-03", 3},
		{"2024-01-01", "2024-01-01", 1},
		{"2024-01-31", "2024-02-01", 2},
		{"2024-02-28", "2024-03-01", 3}, // leap year
		{"2024-01-03", "2024-01-01", -1},
	}

	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			assert.Equal(t, tt.expected, RentalDays(date(t, tt.start), date(t, tt.end)))
		})
	}

	t.Run("Partial day rounds up", func(t *testing.T) {
		start := date(t, "2024-01-01T00:00:00Z")
		end := date(t, "2024-01-02T06:00:00Z")
		assert.Equal(t, 3, RentalDays(start, end))
	})
}

func TestLateDays(t *testing.T) {
	ref := date(t, "2024-01-10")

	assert.Equal(t, 3, LateDays(ref, date(t, "2024-01-13")))
	assert.Equal(t, 0, LateDays(ref, date(t, "2024-01-10")))
	assert.Equal(t, 0, LateDays(ref, date(t, "2024-01-08")))
	assert.Equal(t, 1, LateDays(ref, date(t, "2024-01-10T01:00:00Z")))
}

func TestLateFee(t *testing.T) {
	t.Run("Three days late", func(t *testing.T) {
		fee := LateFee(3, decimal.NewFromInt(100000), DefaultLateFeeMultiplier)
		assert.True(t, decimal.NewFromInt(450000).Equal(fee), fee.String())
	})

	t.Run("Not late", func(t *testing.T) {
		assert.True(t, LateFee(0, decimal.NewFromInt(100000), DefaultLateFeeMultiplier).IsZero())
	})

	t.Run("Rounded to cents", func(t *testing.T) {
		fee := LateFee(1, decimal.RequireFromString("33.333333"), DefaultLateFeeMultiplier)
		assert.Equal(t, "50", fee.String())
	})
}

func TestRefund(t *testing.T) {
	t.Run("Deposit absorbs fees", func(t *testing.T) {
		refund := Refund(decimal.NewFromInt(300000), decimal.NewFromInt(50000), decimal.NewFromInt(100000))
		assert.True(t, decimal.NewFromInt(150000).Equal(refund))
	})

	t.Run("Never negative", func(t *testing.T) {
		refund := Refund(decimal.NewFromInt(100000), decimal.NewFromInt(150000), decimal.NewFromInt(50000))
		assert.True(t, refund.IsZero())
	})
}

func TestOrderTotals(t *testing.T) {
	var totals OrderTotals
	totals.Add(LineSubtotal(decimal.NewFromInt(100000), 3, 2), LineDeposit(decimal.NewFromInt(200000), 2))
	totals.Add(LineSubtotal(decimal.NewFromInt(50000), 3, 1), LineDeposit(decimal.NewFromInt(100000), 1))

	assert.Equal(t, "750000", totals.Subtotal.String())
	assert.Equal(t, "500000", totals.DepositTotal.String())
	assert.Equal(t, "1250000", totals.Total().String())
}
