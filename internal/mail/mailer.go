package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers the transactional emails the auth flows need. Handlers
// depend on this interface so tests can swap in a recorder.
type Sender interface {
	SendVerification(to, fullName, verificationLink string) error
	SendWelcome(to, fullName string) error
	SendResetCode(to, fullName, code string, cooldownDays int) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds the mailer.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

var _ Sender = (*SMTPMailer)(nil)

// SendVerification mails the account activation link.
func (m *SMTPMailer) SendVerification(to, fullName, verificationLink string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Please verify your email address to activate your account.</p><p><a href=%q>Verify Your Email</a></p><p>If you did not request this email, please ignore it.</p>",
		fullName, verificationLink,
	)
	return m.send(to, "Verify Your Email", body)
}

// SendWelcome mails the post-verification welcome message.
func (m *SMTPMailer) SendWelcome(to, fullName string) error {
	body := fmt.Sprintf(
		"<p>Hi %s, welcome aboard! Your email has been verified successfully. You can now log in and start using our services.</p>",
		fullName,
	)
	return m.send(to, "Welcome 🥂🎊", body)
}

// SendResetCode mails a one-time password reset code. The copy states the
// 24-hour validity and the cooldown until the next allowed change.
func (m *SMTPMailer) SendResetCode(to, fullName, code string, cooldownDays int) error {
	body := fmt.Sprintf(
		"<p>%s, use %s to reset your password. It expires in 24 hours. Your next allowed change will be in %d days.</p>",
		fullName, code, cooldownDays,
	)
	return m.send(to, "Password Reset", body)
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
