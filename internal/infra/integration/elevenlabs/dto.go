package elevenlabs

import (
	"encoding/json"
	"fmt"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type signedURLResponse struct {
	SignedURL string `json:"signed_url"`
}

type conversationTokenResponse struct {
	ConversationToken string `json:"conversation_token"`
	Token             string `json:"token"`
}

func decodeBody(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("erro ao decodificar resposta da ElevenLabs: %w", err)
	}
	return nil
}
