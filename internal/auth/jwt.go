// Package auth verifies identity-provider bearer tokens and resolves the
// caller's role from their profile.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/reciclamais/recicla"
)

// Compile-time check that Verifier implements recicla.IdentityService.
var _ recicla.IdentityService = (*Verifier)(nil)

// Config configures token verification.
type Config struct {
	// Secret is the HS256 signing secret shared with the identity provider.
	Secret []byte

	// Issuer and Audience are checked when non-empty.
	Issuer   string
	Audience string

	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration

	// ProfileTTL is how long a resolved subject stays cached.
	ProfileTTL time.Duration
}

// Claims is the token payload issued by the identity provider.
type Claims struct {
	Email        string       `json:"email,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// UserMetadata holds the profile attributes set at sign-up.
type UserMetadata struct {
	FullName string `json:"full_name,omitempty"`
	UserType string `json:"user_type,omitempty"`
}

// Verifier implements recicla.IdentityService for HS256 tokens.
type Verifier struct {
	cfg    Config
	users  recicla.UserService
	cache  *cache.Cache
	logger *slog.Logger
	parser *jwt.Parser
}

// NewVerifier creates a verifier. Profiles are looked up through users.
func NewVerifier(cfg Config, users recicla.UserService, logger *slog.Logger) *Verifier {
	if cfg.Leeway == 0 {
		cfg.Leeway = 30 * time.Second
	}
	if cfg.ProfileTTL == 0 {
		cfg.ProfileTTL = 5 * time.Minute
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{
		cfg:    cfg,
		users:  users,
		cache:  cache.New(cfg.ProfileTTL, 2*cfg.ProfileTTL),
		logger: logger,
		parser: jwt.NewParser(opts...),
	}
}

// VerifyCredential authenticates token and returns the subject it was issued to.
func (v *Verifier) VerifyCredential(ctx context.Context, token string) (*recicla.Subject, error) {
	if token == "" {
		return nil, recicla.Unauthorized("Authentication token not provided")
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	})
	if err != nil {
		v.logger.Debug("token rejected", slog.String("error", err.Error()))
		return nil, recicla.Unauthorized("Invalid or expired token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, recicla.Unauthorized("Invalid or expired token")
	}

	if cached, ok := v.cache.Get(id.String()); ok {
		subject := *cached.(*recicla.Subject)
		return &subject, nil
	}

	subject, err := v.resolve(ctx, id, claims)
	if err != nil {
		return nil, err
	}
	v.cache.SetDefault(id.String(), subject)

	copied := *subject
	return &copied, nil
}

// Forget drops a cached subject, e.g. after the profile changed.
func (v *Verifier) Forget(id uuid.UUID) {
	v.cache.Delete(id.String())
}

// resolve loads the subject's profile. The lookup runs as the subject itself
// with the least privileged role so row-level policies apply.
func (v *Verifier) resolve(ctx context.Context, id uuid.UUID, claims *Claims) (*recicla.Subject, error) {
	lookupCtx := recicla.NewContextWithSubject(ctx, &recicla.Subject{ID: id, Role: recicla.RoleCitizen})

	user, err := v.users.FindUserByID(lookupCtx, id)
	switch {
	case err == nil:
		return &recicla.Subject{ID: id, Role: normalizeRole(string(user.Role)), Name: user.FullName}, nil
	case recicla.IsErrorCode(err, recicla.ENOTFOUND):
		// Profile row not created yet. Token metadata is not trusted for the role.
		return &recicla.Subject{ID: id, Role: recicla.RoleCitizen, Name: claims.UserMetadata.FullName}, nil
	default:
		var appErr *recicla.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, recicla.Internal("Failed to resolve user profile", fmt.Errorf("finding user %s: %w", id, err))
	}
}

func normalizeRole(raw string) recicla.Role {
	if recicla.Role(raw) == recicla.RoleManager {
		return recicla.RoleManager
	}
	return recicla.RoleCitizen
}
