package jobs

import (
	"context"
	"fmt"
	"time"

	"costume-rental-backend/internal/logger"
)

// pendingDigestAge is how long an order may sit in pending before it is reported.
const pendingDigestAge = 24 * time.Hour

// SendOverdueReminders e-mails every customer whose rented order is past its due date
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() error {
		ctx := context.Background()

		overdue, err := jr.orders.ListOverdue(ctx, jr.now().UTC())
		if err != nil {
			return fmt.Errorf("list overdue orders: %w", err)
		}

		sent := 0
		for _, o := range overdue {
			if o.CustomerEmail == "" {
				continue
			}
			if err := jr.email.SendOverdueReminder(ctx, o.CustomerEmail, o.CustomerName, o.OrderNumber, o.DueDate); err != nil {
				logger.Warn("Failed to send overdue reminder", "order_id", o.OrderID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Overdue reminders sent", "overdue", len(overdue), "sent", sent)
		return nil
	})
}

// SendPendingOrderDigest tells the shop mailbox how many orders have waited a day for confirmation
func (jr *JobRunner) SendPendingOrderDigest() {
	jr.runWithRecovery("SendPendingOrderDigest", func() error {
		ctx := context.Background()

		count, err := jr.orders.CountPendingCreatedBefore(ctx, jr.now().UTC().Add(-pendingDigestAge))
		if err != nil {
			return fmt.Errorf("count stale pending orders: %w", err)
		}
		if count == 0 {
			logger.Debug("No stale pending orders")
			return nil
		}

		to := jr.config.SMTP.From
		if to == "" {
			logger.Info("Stale pending orders found but no shop mailbox configured", "count", count)
			return nil
		}
		msg := fmt.Sprintf("%d rental order(s) have been pending for more than 24 hours and need confirmation.", count)
		if err := jr.email.SendAdminNotification(ctx, to, "Pending rental orders", msg); err != nil {
			return fmt.Errorf("send pending digest: %w", err)
		}
		logger.Info("Pending order digest sent", "count", count)
		return nil
	})
}
