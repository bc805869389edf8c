package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-voiceagent/internal/infra/storage"
)

func TestBrowserLogsEmptyBatchReportsZeroWritten(t *testing.T) {
	handler := NewDebugHandler(storage.NewDebugLogSink(t.TempDir()))

	body := []byte(`{"session_id": "sessao-1", "entries": []}`)
	req := httptest.NewRequest("POST", "/api/debug/browser-logs", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleBrowserLogs(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response BrowserLogResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, 0, response.Written)
	assert.Empty(t, response.Filepath)
}

func TestBrowserLogsWritesBatch(t *testing.T) {
	handler := NewDebugHandler(storage.NewDebugLogSink(t.TempDir()))

	body := []byte(`{
		"session_id": "sessao-2",
		"lead_email": "joao@example.com",
		"entries": [
			{"level": "log", "message": "conversa iniciada"},
			{"level": "error", "message": "WebSocket caiu"}
		]
	}`)
	req := httptest.NewRequest("POST", "/api/debug/browser-logs", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleBrowserLogs(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response BrowserLogResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Written)
	assert.NotEmpty(t, response.Filepath)
}
