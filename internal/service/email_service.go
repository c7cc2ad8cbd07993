package service

import (
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"

	"bloggers-platform/internal/config"
	"bloggers-platform/internal/util"
)

const (
	emailExchange = "email_exchange"
	emailQueue    = "email_queue"
	emailRouteKey = "email"
)

// EmailMessage is the payload published to the email queue
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type EmailService interface {
	PublishConfirmationEmail(to, confirmationCode string) error
	PublishRecoveryEmail(to, recoveryCode string) error
	Send(msg EmailMessage) error
}

type emailService struct {
	cfg      *config.Config
	rabbitMQ *util.RabbitMQClient
}

func NewEmailService(cfg *config.Config, rabbitMQ *util.RabbitMQClient) EmailService {
	return &emailService{
		cfg:      cfg,
		rabbitMQ: rabbitMQ,
	}
}

// PublishConfirmationEmail queues the registration confirmation email
func (s *emailService) PublishConfirmationEmail(to, confirmationCode string) error {
	link := fmt.Sprintf("%s/confirm-email?code=%s", s.cfg.ClientURL, confirmationCode)
	return s.publish(EmailMessage{
		To:      to,
		Subject: "Finish registration",
		Body:    fmt.Sprintf("To finish registration please follow the link: %s", link),
	})
}

// PublishRecoveryEmail queues the password recovery email
func (s *emailService) PublishRecoveryEmail(to, recoveryCode string) error {
	link := fmt.Sprintf("%s/password-recovery?recoveryCode=%s", s.cfg.ClientURL, recoveryCode)
	return s.publish(EmailMessage{
		To:      to,
		Subject: "Password recovery",
		Body:    fmt.Sprintf("To finish password recovery please follow the link: %s", link),
	})
}

// publish enqueues the message; when RabbitMQ is down the email is sent
// inline so registration still works in dev setups
func (s *emailService) publish(msg EmailMessage) error {
	if s.rabbitMQ == nil || s.rabbitMQ.IsClosed() {
		log.Println("RabbitMQ unavailable, sending email directly")
		return s.Send(msg)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	return s.rabbitMQ.Publish(emailExchange, emailRouteKey, body)
}

// Send delivers the email over SMTP. Without SMTP configured it only logs,
// which is the intended dev behavior.
func (s *emailService) Send(msg EmailMessage) error {
	if s.cfg.SMTPHost == "" {
		log.Printf("SMTP not configured, would send to %s: %s", msg.To, msg.Subject)
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.SMTPFrom, msg.To, msg.Subject, msg.Body)

	if err := smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{msg.To}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return nil
}
