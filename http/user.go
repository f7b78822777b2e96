package http

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/reciclamais/recicla"
	"github.com/reciclamais/recicla/internal/validation"
)

func (s *Server) handleGetProfile(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	subject, err := requireSubject(c)
	if err != nil {
		return err
	}

	user, err := s.userService.FindUserByID(ctx, subject.ID)
	if err != nil {
		return err
	}

	return RespondOK(c, user)
}

// UpdateProfileRequest is the request payload for updating the caller's profile.
// Empty values leave the field unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=200,printable"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	subject, err := requireSubject(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return recicla.Invalid("Invalid request body")
	}
	req.FullName = sanitized(req.FullName)
	req.Phone = sanitized(req.Phone)
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := s.userService.UpdateUser(ctx, subject.ID, recicla.UserUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}

	if s.profiles != nil {
		s.profiles.Forget(subject.ID)
	}

	s.log(c).Info("profile updated", slog.String("user_id", subject.ID.String()))

	return RespondOK(c, user)
}

// sanitized cleans an optional input, mapping blank values to nil.
func sanitized(v *string) *string {
	if v == nil {
		return nil
	}
	clean := validation.SanitizeInput(*v)
	if strings.TrimSpace(clean) == "" {
		return nil
	}
	return &clean
}
