package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-voiceagent/internal/infra/storage"
	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

type DebugHandler struct {
	Sink *storage.DebugLogSink
}

func NewDebugHandler(sink *storage.DebugLogSink) *DebugHandler {
	return &DebugHandler{Sink: sink}
}

type BrowserLogBatch struct {
	SessionID string                    `json:"session_id"`
	LeadEmail string                    `json:"lead_email,omitempty"`
	Entries   []storage.BrowserLogEntry `json:"entries"`
}

type BrowserLogResponse struct {
	Success  bool   `json:"success"`
	Written  int    `json:"written"`
	Filepath string `json:"filepath,omitempty"`
}

// HandleBrowserLogs - POST /api/debug/browser-logs
func (h *DebugHandler) HandleBrowserLogs(w http.ResponseWriter, r *http.Request) {
	var batch BrowserLogBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, usecase.NewValidationError("JSON inválido"))
		return
	}

	written, path, err := h.Sink.Append(batch.SessionID, batch.LeadEmail, batch.Entries)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BrowserLogResponse{
		Success:  true,
		Written:  written,
		Filepath: path,
	})
}
