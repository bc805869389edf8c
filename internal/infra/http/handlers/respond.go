package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

// ErrorResponse segue o formato {"detail": ...} que o front-end já
// consome desde o backend anterior.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError traduz a taxonomia de erros em status HTTP. Erros crus de
// driver nunca chegam aqui sem embrulho, então o ramo default é 500
// genérico.
func writeError(w http.ResponseWriter, err error) {
	detail := err.Error()

	// Erro da API externa repassa o corpo original, sem o prefixo de status.
	var upstream *usecase.UpstreamError
	if errors.As(err, &upstream) {
		detail = upstream.Detail
	}

	writeJSON(w, statusFor(err), ErrorResponse{Detail: detail})
}

func statusFor(err error) int {
	var upstream *usecase.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status
	}

	var appErr *usecase.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case usecase.ErrConfiguration:
			return http.StatusBadRequest
		case usecase.ErrAuthentication:
			return http.StatusUnauthorized
		case usecase.ErrValidation:
			return http.StatusBadRequest
		case usecase.ErrNotFound:
			return http.StatusNotFound
		case usecase.ErrUnavailable:
			return http.StatusServiceUnavailable
		case usecase.ErrUpstreamUnavailable:
			return http.StatusInternalServerError
		case usecase.ErrPersistence:
			return http.StatusInternalServerError
		}
	}

	return http.StatusInternalServerError
}
