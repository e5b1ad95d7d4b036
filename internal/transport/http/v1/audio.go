package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Audio serves synthesized speech for one phrase. The turn documents
// reference phrases by this URL; the synthesis cache makes repeat fetches of
// the same phrase cheap.
// GET|POST /audio?text=&voiceId=
func (h *Handler) Audio(c echo.Context) error {
	text := c.QueryParam("text")
	if text == "" {
		text = c.FormValue("text")
	}
	if text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}
	voiceID := c.QueryParam("voiceId")
	if voiceID == "" {
		voiceID = c.FormValue("voiceId")
	}

	audio, err := h.service.SynthesizeAudio(c.Request().Context(), text, voiceID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "audio synthesis failed"})
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	return c.Blob(http.StatusOK, "audio/mpeg", audio)
}
