package http

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/reciclamais/recicla"
	"github.com/reciclamais/recicla/internal/complaint"
)

// photosField is the multipart field carrying complaint photos.
const photosField = "photos"

func (s *Server) handleCreateComplaint(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.UploadTimeout)
	defer cancel()

	subject, err := requireSubject(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return recicla.Invalid("Request must be multipart/form-data")
	}

	images, err := readImages(form.File[photosField])
	if err != nil {
		return err
	}

	in := complaint.CreateInput{
		Description: c.FormValue("description"),
		Latitude:    c.FormValue("latitude"),
		Longitude:   c.FormValue("longitude"),
	}

	result, err := s.complaints.CreateComplaint(ctx, subject, recicla.CredentialFromContext(ctx), in, images)
	if err != nil {
		return err
	}

	if len(result.Skipped) > 0 {
		s.log(c).Warn("complaint created with skipped photos",
			slog.String("complaint_id", result.Complaint.ID.String()),
			slog.Int("skipped", len(result.Skipped)),
		)
	}

	return RespondCreated(c, result.Complaint, result.Skipped)
}

// readImages loads every uploaded file into memory. The request body limit
// bounds the total size.
func readImages(headers []*multipart.FileHeader) ([]recicla.RawImage, error) {
	images := make([]recicla.RawImage, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			return nil, recicla.Invalid("Failed to read uploaded file %q", fh.Filename)
		}
		images = append(images, recicla.RawImage{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Data:        data,
		})
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleListComplaints(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	params, err := listParams(c)
	if err != nil {
		return err
	}

	center, radius, err := geoParams(c)
	if err != nil {
		return err
	}
	params.Center = center
	params.RadiusMeters = radius

	list, err := s.complaints.ListComplaints(ctx, params)
	if err != nil {
		return err
	}

	return RespondOK(c, list)
}

func (s *Server) handleListMyComplaints(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	subject, err := requireSubject(c)
	if err != nil {
		return err
	}

	params, err := listParams(c)
	if err != nil {
		return err
	}
	params.OwnerID = &subject.ID

	list, err := s.complaints.ListComplaints(ctx, params)
	if err != nil {
		return err
	}

	return RespondOK(c, list)
}

// listParams reads status, page and limit. Out of range paging values are
// normalized rather than rejected.
func listParams(c echo.Context) (complaint.ListParams, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return complaint.ListParams{}, err
	}
	limit, err := queryInt(c, "limit", complaint.DefaultPageLimit)
	if err != nil {
		return complaint.ListParams{}, err
	}
	page, limit = complaint.NormalizePage(page, limit)

	return complaint.ListParams{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	}, nil
}

// geoParams reads the optional latitude, longitude and radius filter.
// Latitude and longitude must be given together.
func geoParams(c echo.Context) (*recicla.Point, float64, error) {
	latRaw := strings.TrimSpace(c.QueryParam("latitude"))
	lngRaw := strings.TrimSpace(c.QueryParam("longitude"))
	if latRaw == "" && lngRaw == "" {
		return nil, 0, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, 0, recicla.Invalid("latitude and longitude must be given together")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, 0, recicla.Invalid("Invalid latitude")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, 0, recicla.Invalid("Invalid longitude")
	}

	var radius float64
	if raw := strings.TrimSpace(c.QueryParam("radius")); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, 0, recicla.Invalid("Invalid radius")
		}
	}

	return &recicla.Point{Lat: lat, Lng: lng}, radius, nil
}

func (s *Server) handleGetStats(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	subject, err := requireSubject(c)
	if err != nil {
		return err
	}

	start, err := complaint.ParseRangeBound(c.QueryParam("start_date"), false, s.Location)
	if err != nil {
		return err
	}
	end, err := complaint.ParseRangeBound(c.QueryParam("end_date"), true, s.Location)
	if err != nil {
		return err
	}

	stats, err := s.complaints.GetStats(ctx, subject, complaint.StatsRange{Start: start, End: end})
	if err != nil {
		return err
	}

	return RespondOK(c, stats)
}

func (s *Server) handleGetComplaint(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	found, err := s.complaints.GetComplaint(ctx, id)
	if err != nil {
		return err
	}

	return RespondOK(c, found)
}

// UpdateComplaintStatusRequest is the request payload for a status change.
// Status values and notes length are checked by the workflow.
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

func (s *Server) handleUpdateComplaintStatus(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	subject, err := requireSubject(c)
	if err != nil {
		return err
	}

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateComplaintStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := s.complaints.UpdateStatus(ctx, id, req.Status, subject, req.Notes)
	if err != nil {
		return err
	}

	return RespondOK(c, updated)
}
