package service

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"otp-service/internal/domain"
)

// messageTemplate - параметры письма для конкретного вида OTP
type messageTemplate struct {
	Subject  string
	Heading  string
	Intro    string
	CTALabel string
}

// messageTemplates - таблица шаблонов по виду письма.
// Добавление нового flow - это новая строка в таблице, а не новый if.
var messageTemplates = map[domain.MessageKind]messageTemplate{
	domain.KindSignup: {
		Subject:  "Verify your email address",
		Heading:  "Confirm your registration",
		Intro:    "Use the code below to verify your email address and finish setting up your account.",
		CTALabel: "Verify email",
	},
	domain.KindReset: {
		Subject:  "Reset your password",
		Heading:  "Password reset requested",
		Intro:    "We received a request to reset your password. Enter the code below to continue.",
		CTALabel: "Reset password",
	},
}

// bodyTemplate - общая HTML разметка письма, код подставляется как есть
var bodyTemplate = template.Must(template.New("otp-email").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 24px;">
    <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h2 style="color: #333333; margin-top: 0;">{{.Heading}}</h2>
      <p style="color: #555555;">{{.Intro}}</p>
      <div style="text-align: center; margin: 24px 0;">
        <span style="font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #1a1a1a;">{{.Code}}</span>
      </div>
      <p style="color: #555555;">{{.CTALabel}} within the next 5 minutes - the code expires after that.</p>
      <p style="color: #999999; font-size: 12px;">If you did not request this code, you can safely ignore this email.</p>
    </div>
  </body>
</html>`))

// Mailer отправляет письма с OTP кодом через SMTP
type Mailer struct {
	dialer *gomail.Dialer
	sender string
}

// NewMailer создает mailer с настройками из переменных окружения:
// SMTP_HOST, SMTP_PORT (по умолчанию 465), SMTP_USER, SMTP_PASS, SMTP_SENDER.
func NewMailer() *Mailer {
	port := 465
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	return &Mailer{
		dialer: gomail.NewDialer(
			os.Getenv("SMTP_HOST"),
			port,
			os.Getenv("SMTP_USER"),
			os.Getenv("SMTP_PASS"),
		),
		sender: os.Getenv("SMTP_SENDER"),
	}
}

// Send отправляет письмо с кодом на указанный адрес.
// Ошибка доставки возвращается вызывающему, повторов нет.
func (m *Mailer) Send(kind domain.MessageKind, to, code string) error {
	subject, body, err := renderMessage(kind, code)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	return nil
}

// renderMessage собирает тему и HTML тело письма для данного вида
func renderMessage(kind domain.MessageKind, code string) (string, string, error) {
	tmpl, ok := messageTemplates[kind]
	if !ok {
		tmpl = messageTemplates[domain.KindSignup]
	}

	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		Heading  string
		Intro    string
		CTALabel string
		Code     string
	}{
		Heading:  tmpl.Heading,
		Intro:    tmpl.Intro,
		CTALabel: tmpl.CTALabel,
		Code:     code,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render email template: %w", err)
	}

	return tmpl.Subject, buf.String(), nil
}
