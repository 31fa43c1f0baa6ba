package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"funnelboard/models"
)

// AlertMailer sends the funnel alert digest to the configured recipients.
type AlertMailer struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromEmail  string
	Recipients []string
}

var alertDigestTemplate = template.Must(template.New("alert_digest").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Funnel Alerts</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .alert { margin: 12px 0; padding: 10px; border-left: 4px solid #e74c3c; background: #fdf2f2; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Outreach Funnel Alerts</h2>
    </div>
    {{range .Alerts}}
    <div class="alert">
        <strong>{{.ProjectName}}</strong> — {{.Message}}
    </div>
    {{end}}
    <div class="footer">
        <p>Generated {{.GeneratedAt}} by Funnelboard.</p>
    </div>
</body>
</html>`))

// NewAlertMailer builds a mailer; callers should skip sending entirely when
// SMTP is not configured.
func NewAlertMailer(host string, port int, username, password, from string, recipients []string) *AlertMailer {
	return &AlertMailer{
		Host:       host,
		Port:       port,
		Username:   username,
		Password:   password,
		FromEmail:  from,
		Recipients: recipients,
	}
}

// SendDigest emails the current alert list. Sending nothing for an empty list
// is the caller's decision, not the mailer's.
func (m *AlertMailer) SendDigest(alerts []models.Alert) error {
	var body bytes.Buffer
	err := alertDigestTemplate.Execute(&body, struct {
		Alerts      []models.Alert
		GeneratedAt string
	}{
		Alerts:      alerts,
		GeneratedAt: time.Now().UTC().Format(time.RFC1123),
	})
	if err != nil {
		return fmt.Errorf("failed to render alert digest: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.FromEmail)
	msg.SetHeader("To", m.Recipients...)
	msg.SetHeader("Subject", fmt.Sprintf("Funnel alerts: %d project(s) need attention", len(alerts)))
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send alert digest: %w", err)
	}
	return nil
}
