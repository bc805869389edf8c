package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/xavierca1/ligue-voiceagent/internal/entity"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/queue"
)

type RegisterLeadInput struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Empresa  string `json:"empresa"`
}

type RegisterLeadOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"lead_id"`
}

// RegisterLeadUseCase grava o lead e, quando há fila configurada,
// publica o evento de captura. A publicação é melhor-esforço: falha na
// fila nunca desfaz nem falha um cadastro já confirmado.
type RegisterLeadUseCase struct {
	Repo     entity.LeadRepository
	Notifier LeadNotifier // opcional
}

func NewRegisterLeadUseCase(repo entity.LeadRepository, notifier LeadNotifier) *RegisterLeadUseCase {
	return &RegisterLeadUseCase{
		Repo:     repo,
		Notifier: notifier,
	}
}

// validateRegisterLeadInput exige os quatro campos do lead preenchidos.
func validateRegisterLeadInput(input RegisterLeadInput) error {
	var missing []string
	if strings.TrimSpace(input.Nome) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(input.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(input.Telefone) == "" {
		missing = append(missing, "telefone")
	}
	if strings.TrimSpace(input.Empresa) == "" {
		missing = append(missing, "empresa")
	}

	if len(missing) > 0 {
		return NewValidationError("campos obrigatórios ausentes: " + strings.Join(missing, ", "))
	}
	return nil
}

func (uc *RegisterLeadUseCase) Execute(ctx context.Context, input RegisterLeadInput) (*RegisterLeadOutput, error) {
	if err := validateRegisterLeadInput(input); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		Nome:     input.Nome,
		Email:    input.Email,
		Telefone: input.Telefone,
		Empresa:  input.Empresa,
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	if uc.Notifier != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:    lead.ID,
			Nome:      lead.Nome,
			Email:     lead.Email,
			Telefone:  lead.Telefone,
			Empresa:   lead.Empresa,
			CreatedAt: lead.CreatedAt.Format(time.RFC3339),
		}
		if err := uc.Notifier.PublishLeadCaptured(ctx, payload); err != nil {
			slog.Warn("falha ao publicar evento de lead capturado", "lead_id", lead.ID, "error", err)
		}
	}

	return &RegisterLeadOutput{
		Success: true,
		Message: "Lead registrado com sucesso",
		LeadID:  lead.ID,
	}, nil
}
