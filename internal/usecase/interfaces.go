package usecase

import (
	"context"

	"github.com/xavierca1/ligue-voiceagent/internal/infra/queue"
)

// LeadNotifier publica o evento de lead capturado para consumo
// assíncrono (worker de notificação).
type LeadNotifier interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}
