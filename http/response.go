package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reciclamais/recicla"
)

// DataResponse is the success envelope of every API response.
type DataResponse struct {
	Data any `json:"data"`
}

// CreatedResponse carries a created complaint and the photos that were
// skipped along the way.
type CreatedResponse struct {
	Data     any                  `json:"data"`
	Warnings []recicla.UploadSkip `json:"warnings"`
}

// Respond sends a JSON response with the given status code and data.
func Respond(c echo.Context, status int, data any) error {
	return c.JSON(status, DataResponse{Data: data})
}

// RespondOK sends a 200 OK response with the given data.
func RespondOK(c echo.Context, data any) error {
	return Respond(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with the given data and warnings.
func RespondCreated(c echo.Context, data any, warnings []recicla.UploadSkip) error {
	if warnings == nil {
		warnings = []recicla.UploadSkip{}
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Data: data, Warnings: warnings})
}
