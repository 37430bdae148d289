package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type EmailService struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	devMode bool
}

func NewEmailService(host, port, user, pass, from string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:    host,
		port:    port,
		user:    user,
		pass:    pass,
		from:    from,
		devMode: devMode,
	}
}

func (s *EmailService) SendWelcomeEmail(to, fullName string) error {
	subject := "Welcome to StudyMate"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; padding: 32px;">
    <h1 style="color: #8B5CF6; margin: 0 0 16px; font-size: 24px;">StudyMate</h1>
    <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Welcome, %s!</h2>
    <p style="color: #64748b; font-size: 14px; line-height: 1.6;">
      Your account is ready. Upload a document, build a flashcard set, or take your first quiz.
    </p>
  </div>
</body>
</html>`, fullName)

	return s.send(to, subject, body)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV MODE] Email to %s: %s", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := s.host + ":" + s.port

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}
