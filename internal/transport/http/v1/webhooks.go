package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billdispute/disputecall/internal/service"
)

// CallStatus receives call lifecycle callbacks. Always acks: the provider
// retries non-2xx responses and there is nothing it can do about our
// processing failures.
// POST /webhooks/call-status
func (h *Handler) CallStatus(c echo.Context) error {
	h.service.HandleCallStatus(c.Request().Context(), service.StatusEvent{
		CallSID:      c.FormValue("CallSid"),
		CallStatus:   c.FormValue("CallStatus"),
		CallDuration: c.FormValue("CallDuration"),
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// RecordingStatus receives recording callbacks.
// POST /webhooks/recording-status
func (h *Handler) RecordingStatus(c echo.Context) error {
	h.service.HandleRecordingStatus(c.Request().Context(), service.StatusEvent{
		CallSID:         c.FormValue("CallSid"),
		RecordingSID:    c.FormValue("RecordingSid"),
		RecordingStatus: c.FormValue("RecordingStatus"),
		RecordingURL:    c.FormValue("RecordingUrl"),
		RecordingLength: c.FormValue("RecordingDuration"),
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
