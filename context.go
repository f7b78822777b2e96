package recicla

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	subjectContextKey contextKey = iota + 1
	credentialContextKey
	requestIDContextKey
)

// Subject context helpers

// NewContextWithSubject attaches an authenticated subject to the context.
func NewContextWithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// SubjectFromContext returns the authenticated subject from the context, or nil.
func SubjectFromContext(ctx context.Context) *Subject {
	subject, _ := ctx.Value(subjectContextKey).(*Subject)
	return subject
}

// SubjectIDFromContext returns the authenticated subject's ID, or a zero UUID.
func SubjectIDFromContext(ctx context.Context) uuid.UUID {
	if subject := SubjectFromContext(ctx); subject != nil {
		return subject.ID
	}
	return uuid.UUID{}
}

// Credential context helpers

// NewContextWithCredential attaches the caller's bearer credential to the context
// so collaborators can act on the caller's behalf.
func NewContextWithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialContextKey, credential)
}

// CredentialFromContext returns the caller's bearer credential, or empty string.
func CredentialFromContext(ctx context.Context) string {
	credential, _ := ctx.Value(credentialContextKey).(string)
	return credential
}

// Request ID context helpers

// NewContextWithRequestID attaches a request ID to the context.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext returns the request ID from the context, or empty string.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
