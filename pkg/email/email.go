package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP configuration
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	// LabQualityInbox is copied on critical result alerts.
	LabQualityInbox string
}

// Message is a rendered email ready to send.
type Message struct {
	To      string
	CC      []string
	Subject string
	HTML    string
}

// Service handles email sending
type Service struct {
	config Config
}

// NewService creates a new email service
func NewService(config Config) *Service {
	return &Service{config: config}
}

// Send delivers a rendered message over SMTP.
func (s *Service) Send(msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	recipients := append([]string{msg.To}, msg.CC...)
	body := s.buildHTMLEmail(msg)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, recipients, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message with headers
func (s *Service) buildHTMLEmail(msg Message) []byte {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	if len(msg.CC) > 0 {
		sb.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(msg.CC, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.HTML)

	return []byte(sb.String())
}
