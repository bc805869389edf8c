package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

const DefaultBaseURL = "https://api.elevenlabs.io"

// Client repassa pedidos de credenciais de curta duração à API da
// ElevenLabs. Cada operação faz exatamente uma chamada, sem retry:
// tokens single-use não podem ser pedidos duas vezes na mesma chamada.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// RealtimeScribeToken gera um token single-use para o Realtime Scribe (STT).
func (c *Client) RealtimeScribeToken(ctx context.Context, apiKeyOverride string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/single-use-token/realtime-scribe", c.baseURL)

	body, err := c.do(ctx, http.MethodPost, endpoint, apiKeyOverride, "Erro ao gerar token")
	if err != nil {
		return "", err
	}

	var response tokenResponse
	if err := decodeBody(body, &response); err != nil {
		return "", err
	}
	return response.Token, nil
}

// SignedURL obtém a signed URL do WebSocket do Conversational AI.
func (c *Client) SignedURL(ctx context.Context, apiKeyOverride, agentID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/convai/conversation/get-signed-url?agent_id=%s",
		c.baseURL, url.QueryEscape(agentID))

	body, err := c.do(ctx, http.MethodGet, endpoint, apiKeyOverride, "Erro ao obter signed URL")
	if err != nil {
		return "", err
	}

	var response signedURLResponse
	if err := decodeBody(body, &response); err != nil {
		return "", err
	}
	return response.SignedURL, nil
}

// ConversationToken obtém o conversation token (WebRTC) para o SDK oficial.
// A API responde no campo conversation_token ou token, dependendo da versão.
func (c *Client) ConversationToken(ctx context.Context, apiKeyOverride, agentID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/convai/conversation/token?agent_id=%s",
		c.baseURL, url.QueryEscape(agentID))

	body, err := c.do(ctx, http.MethodGet, endpoint, apiKeyOverride, "Erro ao obter conversation token")
	if err != nil {
		return "", err
	}

	var response conversationTokenResponse
	if err := decodeBody(body, &response); err != nil {
		return "", err
	}
	if response.ConversationToken != "" {
		return response.ConversationToken, nil
	}
	return response.Token, nil
}

// do executa a chamada e traduz as falhas: 4xx/5xx viram UpstreamError
// com o status e o corpo originais; falha de rede vira 500-equivalente.
func (c *Client) do(ctx context.Context, method, endpoint, apiKeyOverride, errPrefix string) ([]byte, error) {
	apiKey := apiKeyOverride
	if apiKey == "" {
		apiKey = c.apiKey
	}
	if apiKey == "" {
		return nil, usecase.NewAuthenticationError("API key não fornecida")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, usecase.NewUpstreamUnavailableError("Erro de conexão com a ElevenLabs", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, usecase.NewUpstreamUnavailableError("Erro ao ler resposta da ElevenLabs", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &usecase.UpstreamError{
			Status: resp.StatusCode,
			Detail: fmt.Sprintf("%s: %s", errPrefix, string(body)),
		}
	}

	return body, nil
}
