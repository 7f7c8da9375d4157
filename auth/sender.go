package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/roadwatch/accident-tracker-api/templates/html"
)

// Sender delivers a one-time code to a driver
type Sender interface {
	Send(ctx context.Context, name, destination, code string) error
}

// LogSender logs the code instead of delivering it. Used when no delivery
// channel is configured, which keeps the mock flow usable in development.
type LogSender struct{}

// Send logs the issued code
func (LogSender) Send(_ context.Context, name, destination, code string) error {
	zap.S().Infow("otp issued (no delivery channel configured)",
		"name", name,
		"destination", destination,
		"code", code,
	)
	return nil
}

// SendGridSender delivers codes by email through SendGrid. Needs
// SENDGRID_API_KEY and EMAIL_FROM.
type SendGridSender struct{}

// Send emails the code to the destination address
func (SendGridSender) Send(_ context.Context, name, destination, code string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}
	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "no-reply@accident-tracker.app"
	}

	from := mail.NewEmail("Accident Tracker", fromEmail)
	to := mail.NewEmail(name, destination)
	subject := "Your login code"
	html := templates.OtpEmail(name, code)
	message := mail.NewSingleEmail(from, subject, to, fmt.Sprintf("Your login code is %s", code), html)

	client := sendgrid.NewSendClient(apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	zap.S().Infow("otp email sent", "destination", destination, "status", resp.StatusCode)
	return nil
}
