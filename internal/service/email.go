package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
)

const signature = "\n\nBest regards,\nThe Costume Rental Team"

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	logger.ExternalServiceCall("smtp", "DialAndSend", "to", to, "subject", subject)
	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	err := d.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "DialAndSend", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendOrderStatusNotification(ctx context.Context, email, name, orderNumber string, status domain.OrderStatus) error {
	subject := fmt.Sprintf("Order %s is now %s", orderNumber, status)
	return s.send(email, subject, orderStatusBody(name, orderNumber, status))
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name, orderNumber string, dueDate time.Time) error {
	subject := fmt.Sprintf("Reminder: order %s is overdue", orderNumber)
	return s.send(email, subject, overdueBody(name, orderNumber, dueDate))
}

func (s *emailService) SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error {
	return s.send(adminEmail, subject, message)
}

func orderStatusBody(name, orderNumber string, status domain.OrderStatus) string {
	body := fmt.Sprintf("Hello %s,\n\nYour rental order %s has been updated to: %s.", name, orderNumber, status)
	switch status {
	case domain.OrderStatusRented:
		body += "\n\nEnjoy your costume! Please return it by the end of your rental period."
	case domain.OrderStatusCompleted:
		body += "\n\nThank you for returning your rental. Any deposit refund will follow shortly."
	case domain.OrderStatusCancelled:
		body += "\n\nIf you did not request this cancellation, please contact us."
	}
	return body + signature
}

func overdueBody(name, orderNumber string, dueDate time.Time) string {
	return fmt.Sprintf("Hello %s,\n\nYour rental order %s was due back on %s. Late fees accrue for every started day.\n\nPlease return the items as soon as possible.",
		name, orderNumber, dueDate.Format("2006-01-02")) + signature
}

// logEmailService writes messages to the log instead of sending them. It is used when no
// SMTP host is configured.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendOrderStatusNotification(ctx context.Context, email, name, orderNumber string, status domain.OrderStatus) error {
	logger.InfoContext(ctx, "Email (not sent)", "to", email, "kind", "order_status", "order", orderNumber, "status", status)
	return nil
}

func (logEmailService) SendOverdueReminder(ctx context.Context, email, name, orderNumber string, dueDate time.Time) error {
	logger.InfoContext(ctx, "Email (not sent)", "to", email, "kind", "overdue", "order", orderNumber, "due", dueDate)
	return nil
}

func (logEmailService) SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error {
	logger.InfoContext(ctx, "Email (not sent)", "to", adminEmail, "kind", "admin", "subject", subject)
	return nil
}
