package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tilab/tilab/internal/app/models"
)

// EmailService defines the interface for loan notifications
type EmailService interface {
	SendLoanCreatedEmail(loan *models.Loan) error
	SendLoanReturnedEmail(loan *models.Loan) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(to, message string) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.deliver
	return s
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// SendLoanCreatedEmail tells the borrower what was lent and when it is due
func (s *EmailServiceImpl) SendLoanCreatedEmail(loan *models.Loan) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", loan.BorrowerEmail).
			Str("loanID", loan.ID).
			Time("expectedReturnDate", loan.ExpectedReturnDate).
			Msg("SMTP credentials not configured - loan email not sent.")
		return nil
	}

	subject := "Préstamo registrado - TI-LAB"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Préstamo registrado</h2>
				<p>Hola %s,</p>
				<p>Se registró el préstamo <strong>%s</strong> con los siguientes elementos:</p>
				<ul>%s</ul>
				<p>Fecha de devolución esperada: <strong>%s</strong></p>
				<p>Saludos,<br>%s</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(loan.BorrowerName), html.EscapeString(loan.ID), itemList(loan),
		loan.ExpectedReturnDate.Format("02/01/2006"), html.EscapeString(s.config.FromName))

	return s.sendHTMLEmail(loan.BorrowerEmail, subject, body)
}

// SendLoanReturnedEmail confirms a loan was returned
func (s *EmailServiceImpl) SendLoanReturnedEmail(loan *models.Loan) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", loan.BorrowerEmail).
			Str("loanID", loan.ID).
			Msg("SMTP credentials not configured - return email not sent.")
		return nil
	}

	returned := ""
	if loan.ReturnDate != nil {
		returned = loan.ReturnDate.Format("02/01/2006 15:04")
	}

	subject := "Devolución registrada - TI-LAB"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Devolución registrada</h2>
				<p>Hola %s,</p>
				<p>El préstamo <strong>%s</strong> fue devuelto el %s. Gracias.</p>
				<p>Saludos,<br>%s</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(loan.BorrowerName), html.EscapeString(loan.ID), returned,
		html.EscapeString(s.config.FromName))

	return s.sendHTMLEmail(loan.BorrowerEmail, subject, body)
}

func itemList(loan *models.Loan) string {
	var b strings.Builder
	for _, item := range loan.Items {
		b.WriteString("<li>")
		switch {
		case item.KitID != nil:
			b.WriteString("Kit " + html.EscapeString(*item.KitID))
		case item.ComponentID != nil:
			b.WriteString(strconv.Itoa(item.Quantity) + " x " + html.EscapeString(*item.ComponentID))
		}
		if item.SerialNumber != nil {
			b.WriteString(" (S/N " + html.EscapeString(*item.SerialNumber) + ")")
		}
		b.WriteString("</li>")
	}
	return b.String()
}

// buildMessage renders headers in a stable order followed by the body
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) string {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n" + htmlBody)
	return b.String()
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	if err := s.send(toEmail, s.buildMessage(toEmail, subject, htmlBody)); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send email")
		return err
	}
	return nil
}

// deliver sends message over SMTP, implicitly over TLS when configured
func (s *EmailServiceImpl) deliver(toEmail, message string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
