package service

import (
	"fmt"
	"html"
	"net/smtp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/models"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	send         func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		send:         smtp.SendMail,
	}
}

// SendModerationResult tells the author how moderation went.
func (s *EmailService) SendModerationResult(recipe *models.Recipe, owner *models.User) error {
	caser := cases.Title(language.English)
	subject := fmt.Sprintf("[Recipes] Your recipe %q was %s", recipe.Title, caser.String(string(recipe.Status)))
	return s.SendEmail(owner.Email, subject, s.buildModerationBody(recipe, owner))
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log the email instead
	if s.smtpHost == "" || s.smtpPort == "" {
		logging.Info().Str("to", to).Str("subject", subject).Msg("SMTP not configured, email not sent")
		return nil
	}

	var auth smtp.Auth
	if s.smtpUsername != "" {
		auth = smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	}

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, s.fromEmail, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildModerationBody(recipe *models.Recipe, owner *models.User) string {
	outcome := "has been approved and is now visible to everyone."
	notes := ""
	if recipe.Status == models.StatusRejected {
		outcome = "was not approved."
		if recipe.ModerationNotes != nil {
			notes = fmt.Sprintf("<p><strong>Moderator notes:</strong> %s</p>", html.EscapeString(*recipe.ModerationNotes))
		}
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<p>Hello %s,</p>
	<p>Your recipe <strong>%s</strong> %s</p>
	%s
</body>
</html>`, html.EscapeString(owner.Name), html.EscapeString(recipe.Title), outcome, notes)
}
