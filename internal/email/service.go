package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
		send: smtp.SendMail,
	}
}

// SendOrderConfirmation mails the order summary to the shipping address e-mail.
func (s *Service) SendOrderConfirmation(c OrderConfirmation) error {
	body, err := BuildOrderConfirmationBody(c)
	if err != nil {
		return fmt.Errorf("render confirmation for %s: %w", c.OrderID, err)
	}
	subject := fmt.Sprintf("Your Sassynary order %s 🎀", c.OrderID)
	return s.deliver(c.To, subject, body)
}

func (s *Service) deliver(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.send(addr, nil, s.from, []string{to}, []byte(msg))
}
