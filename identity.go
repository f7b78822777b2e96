package recicla

import (
	"context"

	"github.com/google/uuid"
)

// Subject is an authenticated caller as reported by the identity provider.
type Subject struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
	Name string    `json:"name,omitempty"`
}

// IsManager returns true if the subject may triage complaints.
func (s *Subject) IsManager() bool {
	return s != nil && s.Role.IsManager()
}

// IdentityService verifies bearer credentials.
type IdentityService interface {
	// VerifyCredential authenticates a bearer token and resolves the subject's profile.
	// Returns EUNAUTHORIZED if the token is missing, malformed, expired or forged.
	VerifyCredential(ctx context.Context, token string) (*Subject, error)
}
