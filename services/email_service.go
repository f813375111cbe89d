// File: /services/email_service.go
package services

import (
	"fmt"

	"deenconnect-api/config"
	"deenconnect-api/models"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail. Users register with a phone number,
// so every send is conditional on the optional email field being set; all
// sends are best-effort and never block the triggering operation.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendWelcomeEmail greets a newly registered user.
func (es *EmailService) SendWelcomeEmail(user *models.User) error {
	if user.Email == nil || *user.Email == "" {
		return nil
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #1a7f5a;">🕌 DeenConnect</h1>
        <h2>Assalamu alaikum, %s!</h2>
        <p>Welcome to DeenConnect. Add your friends and start a challenge —
        a prayer streak, Quran pages, dhikr or fasting days — and grow together.</p>
        <p style="color: #666; font-size: 14px;">The DeenConnect Team</p>
    </div>
</body>
</html>`, user.DisplayName)

	return es.send(*user.Email, "Welcome to DeenConnect", htmlBody)
}

// SendChallengeCompletedEmails congratulates both participants of a finished
// challenge. Called from a goroutine; failures are logged per recipient.
func (es *EmailService) SendChallengeCompletedEmails(challenge *models.Challenge) {
	for _, user := range []models.User{challenge.Creator, challenge.Opponent} {
		if user.Email == nil || *user.Email == "" {
			continue
		}

		htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #1a7f5a;">🕌 DeenConnect</h1>
        <h2>Masha'Allah, %s!</h2>
        <p>You and your friend both completed the challenge <strong>%s</strong>
        (target: %d). Keep the momentum going!</p>
        <p style="color: #666; font-size: 14px;">The DeenConnect Team</p>
    </div>
</body>
</html>`, user.DisplayName, challenge.Title, challenge.TargetValue)

		if err := es.send(*user.Email, "Challenge completed!", htmlBody); err != nil {
			fmt.Printf("Failed to send challenge completion email to %s: %v\n", *user.Email, err)
		}
	}
}

func (es *EmailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
