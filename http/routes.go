package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all routes for the server.
// All routes are defined in this single file for easy navigation.
func (s *Server) registerRoutes() {
	// Health check routes (public)
	s.echo.GET("/health", s.handleHealthCheck)
	s.echo.GET("/health/live", s.handleLivenessCheck)
	s.echo.GET("/health/ready", s.handleReadinessCheck)

	if s.gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	if s.UploadsDir != "" {
		s.echo.Static("/uploads", s.UploadsDir)
	}

	// Everything under /api/v1 requires a bearer credential
	api := s.echo.Group("/api/v1")
	api.Use(s.RequireAuth())

	// Users
	api.GET("/users/me", s.handleGetProfile)
	api.PUT("/users/me", s.handleUpdateProfile)

	// Complaints. Static segments are registered before :id.
	create := []echo.MiddlewareFunc{}
	if s.submissionLimits != nil {
		create = append(create, s.submissionLimits.Middleware())
	}
	api.POST("/complaints", s.handleCreateComplaint, create...)
	api.GET("/complaints", s.handleListComplaints)
	api.GET("/complaints/my", s.handleListMyComplaints)
	api.GET("/complaints/stats", s.handleGetStats, s.RequireManager())
	api.GET("/complaints/:id", s.handleGetComplaint)
	api.PUT("/complaints/:id/status", s.handleUpdateComplaintStatus, s.RequireManager())
}
