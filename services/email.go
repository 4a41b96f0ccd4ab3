package services

import (
	"fmt"
	"log"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/resend/resend-go/v2"
)

// Email represents an outbound email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// BuildInvoiceSentEmail builds the notification sent to a customer contact
// when an invoice transitions to "sent".
func BuildInvoiceSentEmail(invoice *models.Invoice, customer *models.Customer) *Email {
	subject := fmt.Sprintf("Invoice %s from your legal team", invoice.InvoiceNumber)
	text := fmt.Sprintf(
		"Hello %s,\n\nInvoice %s for %.2f dated %s is now available.\n\nThank you.",
		customer.ContactPerson,
		invoice.InvoiceNumber,
		invoice.TotalAmount,
		invoice.InvoiceDate.Format("2006-01-02"),
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Invoice <strong>%s</strong> for <strong>%.2f</strong> dated %s is now available.</p><p>Thank you.</p>",
		customer.ContactPerson,
		invoice.InvoiceNumber,
		invoice.TotalAmount,
		invoice.InvoiceDate.Format("2006-01-02"),
	)

	return &Email{
		To:       []string{customer.Email},
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	}
}

// SendEmail sends an email through Resend. In test mode the message is
// logged instead of sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode || cfg.ResendAPIKey == "" {
		log.Printf("[EMAIL TEST MODE] To: %v | Subject: %s", email.To, email.Subject)
		return nil
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if _, err := client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendEmailAsync sends an email without blocking the request. Failures are
// logged; notification email is best-effort and never fails the mutation.
func SendEmailAsync(cfg *config.Config, email *Email) {
	go func() {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("[EMAIL] Failed to send to %v: %v", email.To, err)
		}
	}()
}
