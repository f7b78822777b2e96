package mock

import (
	"context"

	"github.com/reciclamais/recicla"
)

// Compile-time interface check
var _ recicla.IdentityService = (*IdentityService)(nil)

// IdentityService is a mock implementation of recicla.IdentityService.
type IdentityService struct {
	VerifyCredentialFn func(ctx context.Context, token string) (*recicla.Subject, error)
}

func (s *IdentityService) VerifyCredential(ctx context.Context, token string) (*recicla.Subject, error) {
	if s.VerifyCredentialFn != nil {
		return s.VerifyCredentialFn(ctx, token)
	}
	return nil, recicla.Unauthorized("Invalid or expired token")
}
