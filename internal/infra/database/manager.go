package database

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq" // Driver do Postgres

	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

const (
	createAttempts = 3
	pingTimeout    = 5 * time.Second

	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Manager guarda o pool compartilhado do processo com criação preguiçosa.
// O mutex garante que duas primeiras requisições concorrentes não criem
// dois pools: quem perde a corrida espera e reaproveita o pool do vencedor.
type Manager struct {
	mu  sync.Mutex
	db  *sql.DB
	dsn string

	// Injetáveis em teste; em produção usam openAndPing e time.Sleep.
	open  func(ctx context.Context, dsn string) (*sql.DB, error)
	sleep func(ctx context.Context, d time.Duration) error
}

func NewManager(dsn string) *Manager {
	return &Manager{
		dsn:   dsn,
		open:  openAndPing,
		sleep: sleepContext,
	}
}

// Acquire retorna o pool pronto, criando-o na primeira chamada.
// Sem DSN configurado falha imediatamente, sem nenhum I/O de rede.
// A criação tenta até 3 vezes com espera crescente (2s, 4s) entre as
// tentativas; esgotadas, o último erro observado é propagado e nada
// fica cacheado.
func (m *Manager) Acquire(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	if strings.TrimSpace(m.dsn) == "" {
		return nil, usecase.NewConfigurationError("DATABASE_URL não configurado")
	}

	dsn := ensureSSLMode(m.dsn)

	var lastErr error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		db, err := m.open(ctx, dsn)
		if err == nil {
			if err := ensureLeadsTable(ctx, db); err != nil {
				db.Close()
				return nil, usecase.NewPersistenceError("erro ao criar tabela de leads", err)
			}
			m.db = db
			slog.Info("pool de conexões pronto", "attempt", attempt)
			return db, nil
		}

		lastErr = err
		slog.Warn("falha ao criar pool de conexões", "attempt", attempt, "error", err)

		if attempt < createAttempts {
			if err := m.sleep(ctx, time.Duration(attempt)*2*time.Second); err != nil {
				return nil, usecase.NewUnavailableError("criação do pool cancelada", err)
			}
		}
	}

	return nil, usecase.NewUnavailableError("banco de dados indisponível após 3 tentativas", lastErr)
}

// Initialized informa se um Acquire anterior já deixou o pool criado.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db != nil
}

// Ping verifica o pool já criado sem disparar uma nova criação.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.Lock()
	db := m.db
	m.mu.Unlock()

	if db == nil {
		return usecase.NewUnavailableError("pool de conexões não inicializado", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

// Release fecha o pool e volta ao estado inicial; sem pool é no-op.
// Depois de liberado o Manager pode ser reinicializado por Acquire.
func (m *Manager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// ensureSSLMode acrescenta sslmode=require quando o DSN não fixa um modo.
func ensureSSLMode(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&sslmode=require"
	}
	return dsn + "?sslmode=require"
}

func openAndPing(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ensureLeadsTable cria a tabela se não existir; nunca derruba nem altera
// dados já gravados por outros processos que compartilham o banco.
func ensureLeadsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			nome TEXT NOT NULL,
			email TEXT NOT NULL,
			telefone TEXT NOT NULL,
			empresa TEXT NOT NULL,
			contato_feito BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
