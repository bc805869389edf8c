package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAgentIDPrefersPrimaryVariable(t *testing.T) {
	t.Setenv("AGENT_ID", "agent-primario")
	t.Setenv("ELEVENLABS_AGENT_ID", "agent-secundario")

	cfg := Load()

	assert.Equal(t, "agent-primario", cfg.AgentID)
}

func TestLoadAgentIDFallsBackToSecondVariable(t *testing.T) {
	t.Setenv("AGENT_ID", "")
	t.Setenv("ELEVENLABS_AGENT_ID", "agent-secundario")

	cfg := Load()

	assert.Equal(t, "agent-secundario", cfg.AgentID)
}

func TestLoadCORSOriginsParsesCommaSeparatedList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://app.example.com, http://localhost:3000 ,")

	cfg := Load()

	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadCORSOriginsDefault(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("PORT", "")

	cfg := Load()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 587, cfg.MailPort)
}
