package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, code string) error
	SendWelcome(email, name string) error
	SendPasswordResetCode(email, code, name string) error
	SendPasswordChangedConfirmation(email, name string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email %q: %w", subject, err)
	}
	return nil
}

func (s *emailService) SendVerificationCode(email, code string) error {
	body := fmt.Sprintf(`
		<h3>Confirm your email address</h3>
		<p>Your verification code: <strong>%s</strong></p>
		<p>The code expires shortly. If you did not create an account, you can ignore this email.</p>
	`, code)
	return s.send(email, "Confirm your email", body)
}

func (s *emailService) SendWelcome(email, name string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your email address has been confirmed and your account is ready to use.</p>
		<p>Best regards,<br>The ClickEnRent Team</p>
	`, name)
	return s.send(email, "Welcome to ClickEnRent!", body)
}

func (s *emailService) SendPasswordResetCode(email, code, name string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>Hi %s, we received a request to reset the password for your account.</p>
		<p>Use the following code to reset your password: <strong>%s</strong></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, name, code)
	return s.send(email, "Password reset request", body)
}

func (s *emailService) SendPasswordChangedConfirmation(email, name string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<h3>Your password was changed</h3>
		<p>Hi %s, the password for your account has just been changed.</p>
		<p>If this was not you, please contact support immediately.</p>
	`, name)
	return s.send(email, "Your password was changed", body)
}
