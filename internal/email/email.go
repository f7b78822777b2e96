// Package email sends complaint notifications through Postmark, or logs them
// when no provider is configured.
package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/keighl/postmark"
	"github.com/reciclamais/recicla"
)

// NewEmailService creates an email service based on the provider configuration
func NewEmailService(logger *slog.Logger, config recicla.EmailConfig) recicla.EmailService {
	switch config.Provider {
	case "postmark":
		return newPostmarkEmailService(logger, config)
	default:
		return newLogEmailService(logger, config)
	}
}

// statusLabels are the citizen-facing names of each status.
var statusLabels = map[recicla.ComplaintStatus]string{
	recicla.ComplaintStatusSent:      "Sent",
	recicla.ComplaintStatusAnalyzing: "Under analysis",
	recicla.ComplaintStatusResolved:  "Resolved",
}

func statusLabel(s recicla.ComplaintStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func complaintURL(config recicla.EmailConfig, id string) string {
	return fmt.Sprintf("%s/complaints/%s", strings.TrimRight(config.ComplaintBaseURL, "/"), id)
}

// logEmailService is a mock implementation that logs instead of sending emails
type logEmailService struct {
	logger *slog.Logger
	config recicla.EmailConfig
}

func newLogEmailService(logger *slog.Logger, config recicla.EmailConfig) *logEmailService {
	return &logEmailService{
		logger: logger,
		config: config,
	}
}

// SendStatusChangedEmail logs the notification instead of sending it
func (s *logEmailService) SendStatusChangedEmail(ctx context.Context, to string, msg recicla.StatusChangedEmail) error {
	s.logger.InfoContext(ctx, "MOCK EMAIL: complaint status changed",
		slog.String("to", to),
		slog.String("complaint_id", msg.ComplaintID),
		slog.String("status", string(msg.Status)),
		slog.String("url", complaintURL(s.config, msg.ComplaintID)),
	)
	return nil
}

// postmarkClient is the subset of *postmark.Client used here.
type postmarkClient interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

// postmarkEmailService sends emails via Postmark
type postmarkEmailService struct {
	client postmarkClient
	logger *slog.Logger
	config recicla.EmailConfig
}

func newPostmarkEmailService(logger *slog.Logger, config recicla.EmailConfig) *postmarkEmailService {
	return &postmarkEmailService{
		client: postmark.NewClient(config.PostmarkServerToken, config.PostmarkAccountToken),
		logger: logger,
		config: config,
	}
}

// SendStatusChangedEmail sends the notification via Postmark
func (s *postmarkEmailService) SendStatusChangedEmail(ctx context.Context, to string, msg recicla.StatusChangedEmail) error {
	email := buildStatusChangedEmail(s.config, to, msg)

	if _, err := s.client.SendEmail(email); err != nil {
		s.logger.ErrorContext(ctx, "failed to send status email via Postmark",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send status email: %w", err)
	}

	s.logger.InfoContext(ctx, "status email sent via Postmark",
		slog.String("to", to),
		slog.String("complaint_id", msg.ComplaintID),
	)
	return nil
}

func buildStatusChangedEmail(config recicla.EmailConfig, to string, msg recicla.StatusChangedEmail) postmark.Email {
	url := complaintURL(config, msg.ComplaintID)
	label := statusLabel(msg.Status)

	name := msg.Name
	if name == "" {
		name = "citizen"
	}

	text := fmt.Sprintf("Hello %s,\n\nYour complaint is now: %s.\n", name, label)
	htmlNotes := ""
	if msg.Notes != "" {
		text += fmt.Sprintf("\nNotes from the city team: %s\n", msg.Notes)
		htmlNotes = fmt.Sprintf("<p>Notes from the city team: %s</p>", html.EscapeString(msg.Notes))
	}
	text += fmt.Sprintf("\nFollow it at %s\n", url)

	return postmark.Email{
		From:     fmt.Sprintf("%s <%s>", config.FromName, config.FromAddress),
		To:       to,
		Subject:  fmt.Sprintf("Your complaint is now %s", strings.ToLower(label)),
		TextBody: text,
		HtmlBody: fmt.Sprintf(`
			<h2>Complaint update</h2>
			<p>Hello %s,</p>
			<p>Your complaint is now <strong>%s</strong>.</p>
			%s
			<p><a href="%s">View complaint</a></p>
		`, html.EscapeString(name), label, htmlNotes, url),
		Tag:        "complaint-status",
		TrackOpens: true,
	}
}
