package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends seller notifications.
type Mailer interface {
	SendListingWishlistedEmail(toEmail, listingTitle string) error
	SendListingSoldEmail(toEmail, listingTitle string) error
}

// SMTPMailer delivers notifications over SMTP.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) SendListingWishlistedEmail(toEmail, listingTitle string) error {
	subject := "Someone saved your listing"
	body := fmt.Sprintf("Your listing %q was added to a buyer's wishlist.", listingTitle)
	return m.send(toEmail, subject, body)
}

func (m *SMTPMailer) SendListingSoldEmail(toEmail, listingTitle string) error {
	subject := "Listing marked as sold"
	body := fmt.Sprintf("Your listing %q has been marked as sold.", listingTitle)
	return m.send(toEmail, subject, body)
}

func (m *SMTPMailer) send(toEmail, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
