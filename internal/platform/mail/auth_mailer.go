package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"skateswap/internal/feature/auth/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// AuthMailer renders account emails and hands them to a Sender.
type AuthMailer struct {
	sender      Sender
	frontendURL string
	verifyTTL   time.Duration
	resetTTL    time.Duration
}

var _ usecase.Notifier = (*AuthMailer)(nil)

// NewAuthMailer creates an AuthMailer. frontendURL is the base of the links in the emails.
func NewAuthMailer(sender Sender, frontendURL string, verifyTTL, resetTTL time.Duration) *AuthMailer {
	return &AuthMailer{
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		verifyTTL:   verifyTTL,
		resetTTL:    resetTTL,
	}
}

type linkData struct {
	Username  string
	Link      string
	ExpiresIn string
}

// VerificationLink returns the frontend URL that redeems an email verification token.
func (m *AuthMailer) VerificationLink(token string) string {
	return m.frontendURL + "/verify-email/" + url.PathEscape(token)
}

// ResetLink returns the frontend URL of the password reset form for token.
func (m *AuthMailer) ResetLink(token string) string {
	return m.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

// SendVerification implements usecase.Notifier.
func (m *AuthMailer) SendVerification(ctx context.Context, to, username, token string) error {
	return m.send(ctx, to, "Verify your SkateSwap account", "email_verification", "verify_email.html", linkData{
		Username:  username,
		Link:      m.VerificationLink(token),
		ExpiresIn: humanize(m.verifyTTL),
	})
}

// SendPasswordReset implements usecase.Notifier.
func (m *AuthMailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	return m.send(ctx, to, "Reset your SkateSwap password", "password_reset", "reset_password.html", linkData{
		Username:  username,
		Link:      m.ResetLink(token),
		ExpiresIn: humanize(m.resetTTL),
	})
}

func (m *AuthMailer) send(ctx context.Context, to, subject, tag, tmpl string, data linkData) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}
	return m.sender.Send(ctx, Message{
		To:       to,
		Subject:  subject,
		HTMLBody: buf.String(),
		Tag:      tag,
	})
}

// humanize formats whole hours as "24 hours" / "1 hour" and anything else with Duration.String.
func humanize(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short time"
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	default:
		return d.String()
	}
}
