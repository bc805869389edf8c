package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// DatabasePool é o recorte do gerenciador de pool que o readiness usa.
type DatabasePool interface {
	Initialized() bool
	Acquire(ctx context.Context) (*sql.DB, error)
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Manager     DatabasePool
	DatabaseURL string
	RabbitMQ    *amqp091.Connection
	StartTime   time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(manager DatabasePool, databaseURL string, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		Manager:     manager,
		DatabaseURL: databaseURL,
		RabbitMQ:    rabbitMQ,
		StartTime:   time.Now(),
	}
}

// HandleLiveness - GET /health. Só diz que o processo está de pé.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleReadiness - GET /api/health. Verifica o banco de verdade e
// responde 503 com diagnóstico quando ele está inacessível ou nem
// configurado.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	status := "healthy"

	// Check Database
	if h.DatabaseURL == "" {
		deps["database"] = "not configured: DATABASE_URL ausente (leads em CSV)"
		status = "degraded"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		err := h.Manager.Ping(ctx)
		if err != nil && !h.Manager.Initialized() {
			// Pool ainda não criado: cria agora e valida o pool recém-aberto.
			// Um ping que falhou sobre um pool já existente nunca cai aqui: o
			// banco está inacessível e a resposta tem de refletir isso.
			if _, acquireErr := h.Manager.Acquire(ctx); acquireErr != nil {
				err = acquireErr
			} else {
				err = h.Manager.Ping(ctx)
			}
		}
		cancel()

		if err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
			status = "degraded"
		} else {
			deps["database"] = "healthy"
		}
	}

	// Check RabbitMQ
	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	uptime := time.Since(h.StartTime).Round(time.Second).String()

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       uptime,
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
