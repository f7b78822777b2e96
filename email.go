package recicla

import "context"

// EmailService defines operations for sending emails.
type EmailService interface {
	// SendStatusChangedEmail tells a complaint owner that its status changed.
	SendStatusChangedEmail(ctx context.Context, to string, msg StatusChangedEmail) error
}

// StatusChangedEmail carries the data rendered into a status notification.
type StatusChangedEmail struct {
	Name        string
	ComplaintID string
	Status      ComplaintStatus
	Notes       string
}

// EmailConfig holds configuration for email services.
type EmailConfig struct {
	// Provider is the email provider ("mock" or "postmark").
	Provider string

	// FromAddress is the sender email address.
	FromAddress string

	// FromName is the sender display name.
	FromName string

	// ComplaintBaseURL is the base URL used to link to a complaint.
	ComplaintBaseURL string

	// Postmark-specific configuration
	PostmarkServerToken  string
	PostmarkAccountToken string
}
