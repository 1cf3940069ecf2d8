package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/clipfeed/internal/capture"
)

// CaptureHandler drives the publish panel's media state machine. The four
// endpoints mirror the panel's controls: pick a file, start recording,
// stop recording, discard.
type CaptureHandler struct {
	capture *capture.Controller
	logger  *slog.Logger
}

// NewCaptureHandler creates a CaptureHandler.
func NewCaptureHandler(cap *capture.Controller, logger *slog.Logger) *CaptureHandler {
	return &CaptureHandler{capture: cap, logger: logger}
}

// HandleState reports where the panel is and whether a payload is ready.
//
// HTTP: GET /api/capture
func (h *CaptureHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":        h.capture.State(),
		"payloadReady": h.capture.Payload() != "",
	})
}

// HandleSelectFile reads a local media file into the panel.
//
// HTTP: POST /api/capture/select
// BODY: {"name": "/path/to/clip.mp4"}
func (h *CaptureHandler) HandleSelectFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "File name is required", http.StatusBadRequest)
		return
	}

	if err := h.capture.SelectFile(req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "File selected.",
		"state":  h.capture.State(),
	})
}

// HandleStartRecording acquires the capture device and starts buffering.
//
// HTTP: POST /api/capture/record/start
func (h *CaptureHandler) HandleStartRecording(w http.ResponseWriter, r *http.Request) {
	if err := h.capture.StartRecording(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Recording…",
		"state":  h.capture.State(),
	})
}

// HandleStopRecording stops the stream and assembles the payload.
//
// HTTP: POST /api/capture/record/stop
func (h *CaptureHandler) HandleStopRecording(w http.ResponseWriter, r *http.Request) {
	if _, err := h.capture.StopRecording(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Recording ready.",
		"state":  h.capture.State(),
	})
}

// HandleClear discards whatever the panel holds and releases the device.
//
// HTTP: POST /api/capture/clear
func (h *CaptureHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.capture.Clear()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Cleared.",
		"state":  h.capture.State(),
	})
}
