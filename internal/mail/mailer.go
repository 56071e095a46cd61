package mail

import (
	"fmt"
	"log"

	"aim-achiever/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. With no SMTP host configured every send
// is a logged no-op, so local development works without a mail server.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// Send is an exported var so handlers can be tested without an SMTP server.
var Send = func(m *Mailer, to, subject, htmlBody string) error {
	if !m.Enabled() {
		log.Printf("[Mail] SMTP not configured, dropping mail to %s (%s)", to, subject)
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}

// SendPeerInvitation mails the tokenized accept link to the invited user.
func (m *Mailer) SendPeerInvitation(to, acceptURL string) error {
	body := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
			<h2>Aim Achiever</h2>
			<h3>You've been invited to be a peer!</h3>
			<p>A fellow Aim Achiever user wants to connect with you as a peer for mutual
			support and accountability. Click the link below to accept the invitation.</p>
			<p><a href="%s">Accept Invitation</a></p>
			<p>If the link doesn't work, copy and paste this address into your browser:</p>
			<p>%s</p>
		</div>`, acceptURL, acceptURL)
	return Send(m, to, "Aim Achiever Peer Invitation", body)
}

// SendDeadlineReminder mails a summary of goals approaching their deadline.
func (m *Mailer) SendDeadlineReminder(to, summaryHTML string) error {
	return Send(m, to, "Aim Achiever: goals due soon", summaryHTML)
}
