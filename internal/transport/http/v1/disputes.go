package v1

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billdispute/disputecall/internal/service"
)

// maxUploadBytes bounds how large an uploaded bill document may be.
const maxUploadBytes = 10 << 20

// CreateDispute accepts a bill document upload and opens a dispute,
// placing the outbound call when possible.
// POST /api/disputes (multipart: file, description, priority)
func (h *Handler) CreateDispute(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	description := c.FormValue("description")
	if description == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "description is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read file"})
	}
	defer f.Close()
	document, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read file"})
	}

	result, err := h.service.CreateDispute(c.Request().Context(), service.CreateDisputeInput{
		Document:    document,
		MediaType:   fileHeader.Header.Get("Content-Type"),
		Description: description,
		Priority:    c.FormValue("priority"),
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

// ListDisputeCalls returns the archived call records for one dispute.
// GET /api/disputes/:dispute_id/calls
func (h *Handler) ListDisputeCalls(c echo.Context) error {
	disputeID := c.Param("dispute_id")
	records, err := h.service.ArchivedCalls(c.Request().Context(), disputeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"disputeId": disputeID,
		"calls":     records,
	})
}

// ListActiveCalls returns snapshots of all live call sessions.
// GET /api/calls
func (h *Handler) ListActiveCalls(c echo.Context) error {
	sessions := h.service.ActiveCalls()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(sessions),
		"calls": sessions,
	})
}
