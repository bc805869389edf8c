package entity

import (
	"context"
	"time"
)

// Lead é um contato capturado pelo agente de voz na landing page.
// id e created_at são atribuídos pelo repositório na criação e nunca mudam;
// contato_feito é o único campo mutável.
type Lead struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"timestamp"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	Telefone     string    `json:"telefone"`
	Empresa      string    `json:"empresa"`
	ContatoFeito bool      `json:"contato_feito"`
}

type LeadRepository interface {

	// Create gera o id, insere e confirma a escrita preenchendo
	// ID, CreatedAt e ContatoFeito no próprio lead.
	Create(ctx context.Context, lead *Lead) error

	// List retorna todos os leads, sempre do mais recente para o mais antigo.
	List(ctx context.Context) ([]Lead, error)

	// UpdateContactFlag altera o campo contato_feito do lead indicado.
	UpdateContactFlag(ctx context.Context, leadID string, value bool) error
}
