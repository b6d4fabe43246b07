package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"vena/internal/models"
	"vena/internal/pricing"
)

type EmailService interface {
	SendBookingConfirmation(email, clientName string, project *models.Project, portalURL string) error
}

type emailService struct {
	dialer     *gomail.Dialer
	from       string
	vendorName string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, vendorName string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:     dialer,
		from:       fromEmail,
		vendorName: vendorName,
	}
}

func (s *emailService) SendBookingConfirmation(email, clientName string, p *models.Project, portalURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Your booking with %s is confirmed", s.vendorName))

	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your booking <strong>%s</strong> (%s) on %s is confirmed.</p>
		<p>Total: %s<br>Paid: %s<br>Remaining: %s</p>
		<p>You can follow your project at <a href="%s">%s</a>.</p>
		<p>Best regards,<br>%s</p>
	`,
		html.EscapeString(clientName),
		html.EscapeString(p.ProjectName),
		html.EscapeString(p.PackageName),
		p.Date.Format("02 Jan 2006"),
		pricing.FormatRupiah(p.TotalCost),
		pricing.FormatRupiah(p.AmountPaid),
		pricing.FormatRupiah(p.Remaining()),
		portalURL, portalURL,
		html.EscapeString(s.vendorName),
	)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}
