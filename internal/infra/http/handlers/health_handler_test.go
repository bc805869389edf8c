package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePool simula o gerenciador de pool sem banco real. Acquire bem
// sucedido marca o pool como criado, igual ao comportamento do Manager.
type fakePool struct {
	created      bool
	pingErr      error
	acquireErr   error
	acquireCalls int
}

func (f *fakePool) Initialized() bool {
	return f.created
}

func (f *fakePool) Ping(ctx context.Context) error {
	if !f.created {
		return errors.New("pool de conexões não inicializado")
	}
	return f.pingErr
}

func (f *fakePool) Acquire(ctx context.Context) (*sql.DB, error) {
	f.acquireCalls++
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.created = true
	return nil, nil
}

func doReadiness(t *testing.T, handler *HealthHandler) (int, HealthResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.HandleReadiness(rec, req)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestReadinessDeadPoolReports503(t *testing.T) {
	pool := &fakePool{
		created: true,
		pingErr: errors.New("connection refused"),
	}
	handler := NewHealthHandler(pool, "postgres://db", nil)

	code, body := doReadiness(t, handler)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Contains(t, body.Dependencies["database"], "unhealthy")
	assert.Contains(t, body.Dependencies["database"], "connection refused")
	// Pool já existente e inacessível não dispara nova criação.
	assert.Zero(t, pool.acquireCalls)
}

func TestReadinessCreatesPoolLazilyWhenHealthy(t *testing.T) {
	pool := &fakePool{}
	handler := NewHealthHandler(pool, "postgres://db", nil)

	code, body := doReadiness(t, handler)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Dependencies["database"])
	assert.Equal(t, 1, pool.acquireCalls)
}

func TestReadinessLazyCreationFailureReports503(t *testing.T) {
	pool := &fakePool{acquireErr: errors.New("banco de dados indisponível após 3 tentativas")}
	handler := NewHealthHandler(pool, "postgres://db", nil)

	code, body := doReadiness(t, handler)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Dependencies["database"], "unhealthy")
}

func TestReadinessWithoutDatabaseURLIsDegraded(t *testing.T) {
	pool := &fakePool{}
	handler := NewHealthHandler(pool, "", nil)

	code, body := doReadiness(t, handler)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Dependencies["database"], "not configured")
	assert.Zero(t, pool.acquireCalls)
}
