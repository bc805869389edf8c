package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadCapturedPayloadRoundTrip(t *testing.T) {
	payload := LeadCapturedPayload{
		LeadID:    "123e4567-e89b-12d3-a456-426614174000",
		Nome:      "João Silva",
		Email:     "joao@example.com",
		Telefone:  "(11) 99999-9999",
		Empresa:   "Acme",
		CreatedAt: "2026-08-30T12:00:00Z",
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	var received LeadCapturedPayload
	require.NoError(t, json.Unmarshal(body, &received))

	assert.Equal(t, payload, received)
}

func TestTopologyNames(t *testing.T) {
	// A DLQ e a fila principal compartilham a routing key para o
	// reencaminhamento via x-dead-letter-exchange funcionar.
	assert.Equal(t, "ex.leads", ExchangeName)
	assert.Equal(t, "q.lead-notifications", QueueName)
	assert.Equal(t, "q.lead-notifications.dlq", DLQName)
	assert.Equal(t, "k.lead-captured", RoutingKey)
}
