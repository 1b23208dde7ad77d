package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"proprental/internal/models"

	gomail "github.com/wneessen/go-mail"
)

// ErrMailDelivery marks a quote request that validated but could not be
// delivered to the rental desk.
var ErrMailDelivery = errors.New("quote email delivery failed")

// Mailer delivers a composed message to the rental desk.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

func NewSMTPMailer(host string, port int, username, password, from, to string) Mailer {
	return &smtpMailer{host: host, port: port, username: username, password: password, from: from, to: to}
}

func (m *smtpMailer) Send(ctx context.Context, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

type QuoteService interface {
	// Submit validates a quote request and emails it to the rental desk.
	Submit(ctx context.Context, req *models.QuoteRequest) error
}

type quoteService struct {
	mailer Mailer
}

func NewQuoteService(mailer Mailer) QuoteService {
	return &quoteService{mailer: mailer}
}

func (s *quoteService) Submit(ctx context.Context, req *models.QuoteRequest) error {
	if err := validateQuoteRequest(req); err != nil {
		return err
	}

	subject := fmt.Sprintf("Quote request from %s", req.Name)
	if err := s.mailer.Send(ctx, subject, quoteEmailBody(req)); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

func validateQuoteRequest(req *models.QuoteRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("a valid email address is required")
	}
	if len(req.Products) == 0 {
		return errors.New("at least one product is required")
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return errors.New("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return errors.New("end_date cannot be before start_date")
	}
	return nil
}

// RentalWeeks converts a date range to billable weeks: any started week counts
// in full, and every rental is at least one week.
func RentalWeeks(startDate, endDate string) int {
	start, err1 := time.Parse("2006-01-02", startDate)
	end, err2 := time.Parse("2006-01-02", endDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 1
	}
	days := int(end.Sub(start).Hours()/24) + 1
	weeks := (days + 6) / 7
	if weeks < 1 {
		weeks = 1
	}
	return weeks
}

func quoteEmailBody(req *models.QuoteRequest) string {
	weeks := RentalWeeks(req.StartDate, req.EndDate)

	var b strings.Builder
	fmt.Fprintf(&b, "New quote request\n\n")
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	if req.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", req.CompanyName)
	}
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	if req.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	}
	fmt.Fprintf(&b, "Rental period: %s to %s (%d week(s))\n", req.StartDate, req.EndDate, weeks)
	if req.Comments != "" {
		fmt.Fprintf(&b, "Comments: %s\n", req.Comments)
	}

	fmt.Fprintf(&b, "\nRequested products:\n")
	for _, item := range req.Products {
		fmt.Fprintf(&b, "- %s (%.2f per week)\n", item.Name, item.Price)
	}
	fmt.Fprintf(&b, "\nTotal per week: %.2f\n", req.TotalPrice)
	fmt.Fprintf(&b, "Estimated total for %d week(s): %.2f\n", weeks, req.TotalPrice*float64(weeks))
	return b.String()
}
