package config

import (
	"os"
	"strconv"
	"strings"
)

const defaultCORSOrigin = "http://localhost:3000"

// Config reúne as configurações lidas do ambiente.
type Config struct {
	ElevenLabsAPIKey string
	AgentID          string
	CORSOrigins      []string
	DatabaseURL      string
	DataDir          string
	Port             string

	// Opcionais: fila de notificação de leads e SMTP
	RabbitMQURL string
	NotifyEmail string
	MailHost    string
	MailPort    int
	MailUser    string
	MailPass    string
}

// Load monta a configuração a partir das variáveis de ambiente.
// O agent_id aceita dois nomes de variável: AGENT_ID tem prioridade
// sobre ELEVENLABS_AGENT_ID (primeiro não-vazio vence).
func Load() *Config {
	mailPort := 587
	if raw := os.Getenv("MAIL_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			mailPort = p
		}
	}

	return &Config{
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		AgentID:          firstNonEmpty(os.Getenv("AGENT_ID"), os.Getenv("ELEVENLABS_AGENT_ID")),
		CORSOrigins:      parseOrigins(os.Getenv("CORS_ORIGINS")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DataDir:          firstNonEmpty(os.Getenv("DATA_DIR"), "data"),
		Port:             firstNonEmpty(os.Getenv("PORT"), "8080"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		NotifyEmail:      os.Getenv("NOTIFY_EMAIL"),
		MailHost:         os.Getenv("MAIL_HOST"),
		MailPort:         mailPort,
		MailUser:         os.Getenv("MAIL_USER"),
		MailPass:         os.Getenv("MAIL_PASS"),
	}
}

// parseOrigins divide a lista separada por vírgula e limpa espaços.
func parseOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{defaultCORSOrigin}
	}
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{defaultCORSOrigin}
	}
	return origins
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
