package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// DefaultLateFeeMultiplier is the surcharge applied to the average daily price per late day.
var DefaultLateFeeMultiplier = decimal.NewFromFloat(1.5)

// ParseDate accepts a calendar date (yyyy-mm-dd) or a full timestamp and returns it in UTC
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t.UTC(), nil
}

// RentalDays counts the rental window inclusively: ceil((end - start) / 1 day) + 1.
// Same-day rentals are 1 day; an end before the start yields a value below 1.
func RentalDays(start, end time.Time) int {
	return ceilDays(end.Sub(start)) + 1
}

// LateDays is the number of started days between the deadline and the return, or 0 when
// the return is not strictly after the deadline.
func LateDays(reference, returned time.Time) int {
	if !returned.After(reference) {
		return 0
	}
	return ceilDays(returned.Sub(reference))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

// LineSubtotal = daily price * rental days * quantity
func LineSubtotal(dailyPrice decimal.Decimal, rentalDays, quantity int) decimal.Decimal {
	return dailyPrice.Mul(decimal.NewFromInt(int64(rentalDays))).Mul(decimal.NewFromInt(int64(quantity)))
}

// LineDeposit = deposit amount * quantity
func LineDeposit(depositAmount decimal.Decimal, quantity int) decimal.Decimal {
	return depositAmount.Mul(decimal.NewFromInt(int64(quantity)))
}

// LateFee = late days * average daily price * multiplier, rounded to cents.
func LateFee(lateDays int, avgDailyPrice, multiplier decimal.Decimal) decimal.Decimal {
	if lateDays <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(lateDays)).Mul(avgDailyPrice).Mul(multiplier).Round(2)
}

// Refund is what remains of the deposit after penalties. It is never negative.
func Refund(depositTotal, lateFee, damageFee decimal.Decimal) decimal.Decimal {
	refund := depositTotal.Sub(lateFee).Sub(damageFee)
	if refund.IsNegative() {
		return decimal.Zero
	}
	return refund
}

// OrderTotals accumulates line amounts into order totals.
type OrderTotals struct {
	Subtotal     decimal.Decimal
	DepositTotal decimal.Decimal
}

func (t *OrderTotals) Add(lineSubtotal, lineDeposit decimal.Decimal) {
	t.Subtotal = t.Subtotal.Add(lineSubtotal)
	t.DepositTotal = t.DepositTotal.Add(lineDeposit)
}

// Total = subtotal + deposit total
func (t OrderTotals) Total() decimal.Decimal {
	return t.Subtotal.Add(t.DepositTotal)
}
