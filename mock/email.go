package mock

import (
	"context"
	"sync"

	"github.com/reciclamais/recicla"
)

// Compile-time interface check
var _ recicla.EmailService = (*EmailService)(nil)

// EmailService is a mock implementation of recicla.EmailService.
type EmailService struct {
	SendStatusChangedEmailFn func(ctx context.Context, to string, msg recicla.StatusChangedEmail) error

	mu sync.Mutex
	// Tracking sent emails for assertions
	SentEmails []SentEmail
}

// SentEmail records details of a sent email for testing assertions.
type SentEmail struct {
	To  string
	Msg recicla.StatusChangedEmail
}

func (s *EmailService) SendStatusChangedEmail(ctx context.Context, to string, msg recicla.StatusChangedEmail) error {
	s.mu.Lock()
	s.SentEmails = append(s.SentEmails, SentEmail{To: to, Msg: msg})
	s.mu.Unlock()

	if s.SendStatusChangedEmailFn != nil {
		return s.SendStatusChangedEmailFn(ctx, to, msg)
	}
	return nil
}

// Reset clears the sent emails list.
func (s *EmailService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentEmails = nil
}
