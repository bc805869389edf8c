package handlers

import (
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-voiceagent/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/integration/elevenlabs"
	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

// TokenHandler repassa os três tipos de credencial da ElevenLabs.
// O chamador pode mandar a própria chave no header Authorization;
// sem header vale a chave configurada no servidor.
type TokenHandler struct {
	Client  *elevenlabs.Client
	AgentID string
}

func NewTokenHandler(client *elevenlabs.Client, agentID string) *TokenHandler {
	return &TokenHandler{
		Client:  client,
		AgentID: agentID,
	}
}

// HandleRealtimeScribeToken - POST /api/token/realtime-scribe
func (h *TokenHandler) HandleRealtimeScribeToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.Client.RealtimeScribeToken(r.Context(), bearerKey(r))
	if err != nil {
		middleware.RecordIntegrationError("elevenlabs")
		writeError(w, err)
		return
	}

	middleware.RecordTokenIssued("realtime_scribe")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleSignedURL - GET /api/conversation/signed-url
func (h *TokenHandler) HandleSignedURL(w http.ResponseWriter, r *http.Request) {
	if h.AgentID == "" {
		writeError(w, usecase.NewConfigurationError("AGENT_ID ou ELEVENLABS_AGENT_ID não configurado"))
		return
	}

	signedURL, err := h.Client.SignedURL(r.Context(), bearerKey(r), h.AgentID)
	if err != nil {
		middleware.RecordIntegrationError("elevenlabs")
		writeError(w, err)
		return
	}

	middleware.RecordTokenIssued("signed_url")
	writeJSON(w, http.StatusOK, map[string]string{"signed_url": signedURL})
}

// HandleConversationToken - GET /api/conversation/token
func (h *TokenHandler) HandleConversationToken(w http.ResponseWriter, r *http.Request) {
	if h.AgentID == "" {
		writeError(w, usecase.NewConfigurationError("AGENT_ID ou ELEVENLABS_AGENT_ID não configurado"))
		return
	}

	token, err := h.Client.ConversationToken(r.Context(), bearerKey(r), h.AgentID)
	if err != nil {
		middleware.RecordIntegrationError("elevenlabs")
		writeError(w, err)
		return
	}

	middleware.RecordTokenIssued("conversation_token")
	writeJSON(w, http.StatusOK, map[string]string{"conversation_token": token})
}

func bearerKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
