// AngelaMos | 2026
// mailer.go

package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/proofofhustle/api/internal/config"
)

const (
	smtpDialTimeout = 8 * time.Second
	smtpDeadline    = 15 * time.Second
)

var verifyTemplate = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1a1a1a;">
    <h2>Verify your email</h2>
    <p>Welcome to {{.AppName}}. Confirm your email address to activate
    your account.</p>
    <p><a href="{{.Link}}" style="display:inline-block;padding:12px 24px;
    background:#111;color:#fff;text-decoration:none;border-radius:6px;">
    Verify Email</a></p>
    <p>If you didn't sign up, you can ignore this message.</p>
  </body>
</html>`))

// Mailer sends transactional mail over SMTP with STARTTLS. Callers treat
// sends as best-effort the same way Notifier sends are.
type Mailer struct {
	cfg     config.SMTPConfig
	appName string
}

func NewMailer(cfg config.SMTPConfig, appName string) *Mailer {
	return &Mailer{cfg: cfg, appName: appName}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

func (m *Mailer) SendVerificationEmail(
	ctx context.Context,
	to string,
	token string,
) error {
	link := fmt.Sprintf(
		"%s?token=%s",
		m.cfg.VerifyBaseURL,
		url.QueryEscape(token),
	)

	var buf bytes.Buffer
	err := verifyTemplate.Execute(&buf, map[string]string{
		"AppName": m.appName,
		"Link":    link,
	})
	if err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}

	subject := fmt.Sprintf("Verify your email for %s", m.appName)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.cfg.FromName, m.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		buf.String(),
	}, "\r\n")

	if err := m.send(ctx, to, []byte(msg)); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	return nil
}

func (m *Mailer) send(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := net.Dialer{Timeout: smtpDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	// Deadline covers the whole SMTP conversation, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(smtpDeadline)) //nolint:errcheck

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = client.Quit() }() //nolint:errcheck

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		_ = w.Close() //nolint:errcheck
		return fmt.Errorf("smtp write: %w", err)
	}

	return w.Close()
}
