package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-voiceagent/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/storage"
	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

type TranscriptHandler struct {
	Recorder *storage.Recorder
}

func NewTranscriptHandler(recorder *storage.Recorder) *TranscriptHandler {
	return &TranscriptHandler{Recorder: recorder}
}

type TranscriptRequest struct {
	LeadEmail string `json:"lead_email"`
	Speaker   string `json:"speaker"` // "user" ou "agent"
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

type TranscriptResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filepath string `json:"filepath"`
}

// HandleSTT - POST /api/transcripts/stt
func (h *TranscriptHandler) HandleSTT(w http.ResponseWriter, r *http.Request) {
	var req TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, usecase.NewValidationError("JSON inválido"))
		return
	}

	path, err := h.Recorder.SaveTranscript(req.LeadEmail, req.Speaker, req.Text, req.Timestamp)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TranscriptResponse{
		Success:  true,
		Message:  "Transcrição salva com sucesso",
		Filepath: path,
	})
}

type AudioRequest struct {
	LeadEmail   string `json:"lead_email"`
	LeadID      string `json:"lead_id,omitempty"`
	Speaker     string `json:"speaker"`
	AudioBase64 string `json:"audio_base64"`
	EventID     int    `json:"event_id,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	AudioFormat string `json:"audio_format,omitempty"`
}

type AudioResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filepath string `json:"filepath"`
	Format   string `json:"format"`
	LeadID   string `json:"lead_id,omitempty"`
}

// HandleTTS - POST /api/transcripts/tts
func (h *TranscriptHandler) HandleTTS(w http.ResponseWriter, r *http.Request) {
	var req AudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, usecase.NewValidationError("JSON inválido"))
		return
	}

	path, format, err := h.Recorder.SaveAudio(
		r.Context(), req.LeadEmail, req.Speaker, req.AudioBase64,
		req.EventID, req.Timestamp, req.AudioFormat,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordAudioSaved(format)
	writeJSON(w, http.StatusOK, AudioResponse{
		Success:  true,
		Message:  "Áudio salvo com sucesso em formato " + format,
		Filepath: path,
		Format:   format,
		LeadID:   req.LeadID,
	})
}
