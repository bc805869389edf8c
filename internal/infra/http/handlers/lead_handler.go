package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-voiceagent/internal/entity"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

type LeadHandler struct {
	registerUC  *usecase.RegisterLeadUseCase
	repo        entity.LeadRepository
	rateLimiter *RateLimiter
}

func NewLeadHandler(registerUC *usecase.RegisterLeadUseCase, repo entity.LeadRepository) *LeadHandler {
	return &LeadHandler{
		registerUC:  registerUC,
		repo:        repo,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

// HandleRegister - POST /api/leads/register
func (h *LeadHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Detail: "Muitas requisições. Tente novamente em instantes.",
		})
		return
	}

	var input usecase.RegisterLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, usecase.NewValidationError("JSON inválido"))
		return
	}

	output, err := h.registerUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordLeadCaptured()
	writeJSON(w, http.StatusOK, output)
}

type ListLeadsResponse struct {
	Leads []entity.Lead `json:"leads"`
}

// HandleList - GET /api/leads/list (sempre do mais recente para o mais antigo)
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{Leads: leads})
}

type UpdateContactFlagRequest struct {
	ContatoFeito bool `json:"contato_feito"`
}

type UpdateContactFlagResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleUpdateContactFlag - PATCH /api/leads/{leadID}/contato-feito
func (h *LeadHandler) HandleUpdateContactFlag(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req UpdateContactFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, usecase.NewValidationError("JSON inválido"))
		return
	}

	if err := h.repo.UpdateContactFlag(r.Context(), leadID, req.ContatoFeito); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UpdateContactFlagResponse{
		Success: true,
		Message: "Lead atualizado com sucesso",
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
