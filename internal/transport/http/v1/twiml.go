package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/billdispute/disputecall/internal/service"
)

const twimlContentType = "text/xml; charset=utf-8"

// InitialTurn serves the first control document of a call: the generated
// greeting plus the speech gather that starts the turn loop.
// POST /twiml/dispute-call?disputeId=&data=&retry=
func (h *Handler) InitialTurn(c echo.Context) error {
	disputeID := c.QueryParam("disputeId")
	if disputeID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "disputeId is required"})
	}
	callSID := c.FormValue("CallSid")
	if callSID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "CallSid is required"})
	}

	retry, _ := strconv.Atoi(c.QueryParam("retry"))
	doc := h.service.InitialTurn(c.Request().Context(), service.TurnInput{
		CallSID:   callSID,
		DisputeID: disputeID,
		DataJSON:  c.QueryParam("data"),
		Retry:     retry,
	})
	return c.Blob(http.StatusOK, twimlContentType, []byte(doc.Render()))
}

// ProcessSpeech serves one conversation turn: the callee's transcribed speech
// in, the next control document out.
// POST /twiml/process-speech?callSid=&disputeId=&data=
func (h *Handler) ProcessSpeech(c echo.Context) error {
	callSID := c.QueryParam("callSid")
	if callSID == "" {
		callSID = c.FormValue("CallSid")
	}
	if callSID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "callSid is required"})
	}
	disputeID := c.QueryParam("disputeId")
	if disputeID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "disputeId is required"})
	}

	confidence, _ := strconv.ParseFloat(c.FormValue("Confidence"), 64)
	doc := h.service.ProcessTurn(c.Request().Context(), service.TurnInput{
		CallSID:      callSID,
		DisputeID:    disputeID,
		DataJSON:     c.QueryParam("data"),
		SpeechResult: c.FormValue("SpeechResult"),
		Confidence:   confidence,
	})
	return c.Blob(http.StatusOK, twimlContentType, []byte(doc.Render()))
}
