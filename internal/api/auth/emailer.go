package auth

import (
	"fmt"
	"net/smtp"

	"donation-app/config"
)

// Mailer is the outbound email channel. The SMTP implementation is the
// only real one; tests swap in a failing fake to exercise the signup
// rollback path.
type Mailer interface {
	Send(to, subject, html, text string) error
}

type SMTPMailer struct{}

func (SMTPMailer) Send(to, subject, html, text string) error {
	from := config.SMTP_FROM
	auth := smtp.PlainAuth("", from, config.SMTP_PASSWORD, config.SMTP_HOST)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		html + "\r\n")

	err := smtp.SendMail(config.SMTP_HOST+":"+config.SMTP_PORT, auth, from, []string{to}, message)
	if err != nil {
		fmt.Println("❌ SMTP error:", err)
	}
	return err
}

func sendVerificationEmail(m Mailer, to, name, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email/%s", config.FRONTEND_URL, token)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Welcome to our community, %s!</h2>
			<p>Thank you for signing up. To complete your registration and start your donation journey, please verify your email address:</p>
			<p><a href="%s" style="background-color: #5cb85c; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">Verify My Account</a></p>
			<p>Or copy and paste this link in your browser:</p>
			<p style="word-break: break-all; color: #888;">%s</p>
			<p style="font-size: 12px; color: #999;">If you didn't create this account, you can safely ignore this email.</p>
		</div>`, name, verificationURL, verificationURL)

	text := fmt.Sprintf("Welcome! Please verify your account by visiting: %s", verificationURL)

	return m.Send(to, "Verify Your Email - Donation Trust", html, text)
}

func sendOTPEmail(m Mailer, to, otp string) error {
	html := fmt.Sprintf(`
		<h1>Password Reset OTP</h1>
		<p>You requested a password reset. Use the following one-time password:</p>
		<h2 style="color: #5cb85c; font-size: 32px; letter-spacing: 5px;">%s</h2>
		<p>This OTP is valid for 10 minutes only.</p>
		<p>If you did not request this, please ignore this email.</p>`, otp)

	text := fmt.Sprintf("Your password reset OTP is: %s. Valid for 10 minutes.", otp)

	return m.Send(to, "Password Reset OTP - Donation Trust", html, text)
}
