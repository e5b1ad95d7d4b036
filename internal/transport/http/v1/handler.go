// Package v1 provides the HTTP handlers for the dispute caller: the dispute
// API, the telephony webhooks, and the audio endpoint.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billdispute/disputecall/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Dispute API
	e.POST("/api/disputes", h.CreateDispute)
	e.GET("/api/disputes/:dispute_id/calls", h.ListDisputeCalls)
	e.GET("/api/calls", h.ListActiveCalls)

	// Telephony webhooks (Twilio posts here)
	e.POST("/twiml/dispute-call", h.InitialTurn)
	e.POST("/twiml/process-speech", h.ProcessSpeech)
	e.POST("/webhooks/call-status", h.CallStatus)
	e.POST("/webhooks/recording-status", h.RecordingStatus)

	// Synthesized audio playback (Twilio fetches with GET)
	e.GET("/audio", h.Audio)
	e.POST("/audio", h.Audio)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
