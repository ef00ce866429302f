package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

// MinPasswordLength applies to every password set through the API.
const MinPasswordLength = 6

var (
	ErrOrderFieldsRequired = domain.Validation("Payment method, shipping address, and rental dates are required")
	ErrInvalidRentalDates  = domain.Validation("Invalid rental dates")
	ErrRentalDateOrder     = domain.Validation("Rental end date must not be before start date")
	ErrInvalidDelivery     = domain.Validation("Invalid delivery method")
	ErrCartEmpty           = domain.Validation("Cart is empty")
	ErrInvalidStatus       = domain.Validation("Invalid status")
	ErrTerminalOrder       = domain.Conflict("Cannot update status of completed or cancelled order")
	ErrNotCancellable      = domain.Conflict("Can only cancel pending or confirmed orders")
	ErrOwnOrderNotFound    = domain.NotFound("Rental order not found or cannot be cancelled")
	ErrInvalidPayment      = domain.Validation("Invalid payment status")
	ErrPaymentRefunded     = domain.Conflict("Cannot change payment status of refunded order")
	ErrReturnDateRequired  = domain.Validation("Actual return date is required")
	ErrInvalidReturnDate   = domain.Validation("Invalid actual return date")
	ErrNotRented           = domain.Conflict("Can only process return for rented orders")
	ErrNegativeFee         = domain.Validation("Fees must not be negative")
	ErrNoFieldsToUpdate    = domain.Validation("No fields to update")
	ErrProductInUse        = domain.Conflict("Cannot delete product with active rentals")
	ErrUserHasRentals      = domain.Conflict("Cannot delete user with active rental orders")
	ErrPasswordTooShort    = domain.Validation("Password must be at least %d characters", MinPasswordLength)
	ErrWrongPassword       = domain.Validation("Current password is incorrect")
	ErrAdminInactive       = domain.Forbidden("Admin account is deactivated")
	ErrInsufficientRole    = domain.Forbidden("Insufficient permissions")
)

func productUnavailable(name string) error {
	return domain.Conflict("Product \"%s\" is not available for the selected dates", name)
}

// notFound maps sql.ErrNoRows onto the given domain error and passes anything else through.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

// mergeNotes keeps the existing notes unless a non-empty replacement is given.
func mergeNotes(existing, replacement string) string {
	if strings.TrimSpace(replacement) == "" {
		return existing
	}
	return replacement
}

// releaseInventory returns every line of the order to available stock.
func releaseInventory(ctx context.Context, uow repository.UnitOfWork, orderID string) error {
	details, err := uow.Orders().ListDetails(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order lines: %w", err)
	}
	for _, d := range details {
		if err := uow.Products().Release(ctx, d.ProductID, d.Quantity); err != nil {
			return fmt.Errorf("failed to release product %s: %w", d.ProductID, err)
		}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
