package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-voiceagent/internal/entity"
	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

// LeadRepository persiste leads no Postgres através do pool do Manager.
type LeadRepository struct {
	Manager *Manager
}

func NewLeadRepository(m *Manager) *LeadRepository {
	return &LeadRepository{Manager: m}
}

// Create insere o lead e relê a linha pelo id antes de confirmar.
// Se a releitura não encontrar nada, a falha é de persistência
// (a escrita sumiu), distinta de banco indisponível.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	db, err := r.Manager.Acquire(ctx)
	if err != nil {
		return err
	}

	id := uuid.New().String()

	_, err = db.ExecContext(ctx, `
		INSERT INTO leads (id, nome, email, telefone, empresa)
		VALUES ($1, $2, $3, $4, $5)
	`, id, lead.Nome, lead.Email, lead.Telefone, lead.Empresa)
	if err != nil {
		return usecase.NewPersistenceError("erro ao inserir lead", err)
	}

	// Releitura de confirmação
	err = db.QueryRowContext(ctx, `
		SELECT id, created_at, contato_feito FROM leads WHERE id = $1
	`, id).Scan(&lead.ID, &lead.CreatedAt, &lead.ContatoFeito)
	if errors.Is(err, sql.ErrNoRows) {
		return usecase.NewPersistenceError("inserção do lead não confirmada pela releitura", nil)
	}
	if err != nil {
		return usecase.NewPersistenceError("erro ao confirmar inserção do lead", err)
	}

	return nil
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	db, err := r.Manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, created_at, nome, email, telefone, empresa, contato_feito
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, usecase.NewPersistenceError("erro ao listar leads", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		var lead entity.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.CreatedAt,
			&lead.Nome,
			&lead.Email,
			&lead.Telefone,
			&lead.Empresa,
			&lead.ContatoFeito,
		); err != nil {
			return nil, usecase.NewPersistenceError("erro ao ler linha de lead", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, usecase.NewPersistenceError("erro ao percorrer leads", err)
	}

	return leads, nil
}

func (r *LeadRepository) UpdateContactFlag(ctx context.Context, leadID string, value bool) error {
	if _, err := uuid.Parse(leadID); err != nil {
		return usecase.NewValidationError("lead_id inválido: " + leadID)
	}

	db, err := r.Manager.Acquire(ctx)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE leads SET contato_feito = $1 WHERE id = $2
	`, value, leadID)
	if err != nil {
		return usecase.NewPersistenceError("erro ao atualizar contato_feito", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return usecase.NewPersistenceError("erro ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return usecase.NewNotFoundError("lead não encontrado: " + leadID)
	}

	return nil
}
