package usecase

import (
	"errors"
	"fmt"
)

// ErrorCode identifica a categoria do erro para o handler traduzir em status HTTP.
type ErrorCode string

const (
	ErrConfiguration       ErrorCode = "CONFIGURATION"
	ErrAuthentication      ErrorCode = "AUTHENTICATION"
	ErrValidation          ErrorCode = "VALIDATION"
	ErrNotFound            ErrorCode = "NOT_FOUND"
	ErrUnavailable         ErrorCode = "UNAVAILABLE"
	ErrUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrPersistence         ErrorCode = "PERSISTENCE"
)

type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewConfigurationError(message string) *AppError {
	return &AppError{Code: ErrConfiguration, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Code: ErrAuthentication, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: ErrNotFound, Message: message}
}

// NewUnavailableError indica que o backing store não está acessível (503).
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{Code: ErrUnavailable, Message: message, Err: err}
}

// NewUpstreamUnavailableError indica falha de rede com a API externa (500).
func NewUpstreamUnavailableError(message string, err error) *AppError {
	return &AppError{Code: ErrUpstreamUnavailable, Message: message, Err: err}
}

func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Code: ErrPersistence, Message: message, Err: err}
}

// IsCode verifica se o erro (ou algum erro embrulhado) carrega o código dado.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// UpstreamError representa uma resposta de erro da API externa.
// O status HTTP original é repassado ao chamador junto com o corpo.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream respondeu status %d: %s", e.Status, e.Detail)
}
