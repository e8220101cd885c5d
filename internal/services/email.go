package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/foxxcyber/healthy-food/internal/booking"
	"github.com/foxxcyber/healthy-food/internal/models"
)

var ErrSMTPNotConfigured = errors.New("SMTP is not configured")

const smtpDialTimeout = 10 * time.Second

// SMTPConfig holds the outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	FromAddr string
	FromName string
	Enabled  bool
}

// EmailService handles sending emails via SMTP
type EmailService struct {
	cfg  SMTPConfig
	send func(ctx context.Context, cfg SMTPConfig, to []string, msg string) error
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, send: sendMail}
}

// IsConfigured returns true if SMTP is properly configured
func (s *EmailService) IsConfigured() bool {
	return s.cfg.Enabled && s.cfg.Host != "" && s.cfg.FromAddr != ""
}

// SendEmail sends a multipart text/HTML email
func (s *EmailService) SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !s.IsConfigured() {
		return ErrSMTPNotConfigured
	}
	return s.send(ctx, s.cfg, []string{to}, s.buildMessage([]string{to}, subject, htmlBody, textBody))
}

// SendAppointmentConfirmation e-mails the booking summary to the contact
func (s *EmailService) SendAppointmentConfirmation(ctx context.Context, appt models.Appointment) error {
	if appt.ContactEmail == "" {
		return nil
	}
	subject, htmlBody, textBody := appointmentEmail(appt)
	return s.SendEmail(ctx, appt.ContactEmail, subject, htmlBody, textBody)
}

func appointmentEmail(appt models.Appointment) (subject, htmlBody, textBody string) {
	date := appt.Date
	if d, err := time.Parse(booking.DateLayout, appt.Date); err == nil {
		date = d.Format("02/01/2006")
	}

	var details []string
	if appt.Kind == models.AppointmentGym {
		subject = "HealthyFood - Visita agendada"
		label := appt.Service
		if svc, ok := booking.GymService(appt.Service); ok {
			label = svc.Label
		}
		details = append(details, "Academia: "+appt.ProviderName, "Serviço: "+label)
	} else {
		subject = "HealthyFood - Consulta agendada"
		details = append(details, "Nutricionista: "+appt.ProviderName)
		if appt.Price > 0 {
			details = append(details, fmt.Sprintf("Valor: R$ %.2f", appt.Price))
		}
		for _, p := range booking.PaymentMethods {
			if p.Value == appt.PaymentMethod {
				details = append(details, "Pagamento: "+p.Label)
			}
		}
	}
	details = append(details, "Data: "+date, "Horário: "+appt.Time)

	textBody = fmt.Sprintf("Olá, %s!\n\nSeu agendamento foi confirmado.\n\n%s\n\nCódigo: %s\n",
		appt.ContactName, strings.Join(details, "\n"), appt.ID)

	var items strings.Builder
	for _, d := range details {
		items.WriteString("<li>" + html.EscapeString(d) + "</li>")
	}
	htmlBody = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333;">
    <h2 style="color: #706f18;">HealthyFood</h2>
    <p>Olá, ` + html.EscapeString(appt.ContactName) + `!</p>
    <p>Seu agendamento foi confirmado.</p>
    <ul>` + items.String() + `</ul>
    <p style="color: #6b7280; font-size: 12px;">Código: ` + html.EscapeString(appt.ID) + `</p>
</body>
</html>`
	return subject, htmlBody, textBody
}

func (s *EmailService) buildMessage(to []string, subject, htmlBody, textBody string) string {
	boundary := "boundary-healthyfood-email"

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromAddr))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(textBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return msg.String()
}

// sendMail uses implicit TLS on port 465 and STARTTLS when offered otherwise
func sendMail(ctx context.Context, cfg SMTPConfig, to []string, msg string) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dialer := &net.Dialer{Timeout: smtpDialTimeout}

	var conn net.Conn
	var err error
	if cfg.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: cfg.Host}}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
				return fmt.Errorf("STARTTLS failed: %w", err)
			}
		}
	}

	if cfg.User != "" && cfg.Password != "" {
		if err = client.Auth(smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(cfg.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
