package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEmptyBatchIsNoOp(t *testing.T) {
	root := t.TempDir()
	sink := NewDebugLogSink(root)

	written, path, err := sink.Append("sessao-1", "", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, written)
	assert.Empty(t, path)

	// Nenhum arquivo (nem diretório de sessão) deve ter sido criado
	_, statErr := os.Stat(filepath.Join(root, "debug", "browser_logs", "sessao-1.log"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAppendWritesHeaderOnFirstBatchOnly(t *testing.T) {
	sink := NewDebugLogSink(t.TempDir())

	entries := []BrowserLogEntry{
		{Timestamp: "2026-08-30T12:00:00Z", Level: "error", Message: "falha no microfone"},
	}

	written, path, err := sink.Append("sessao-abc", "joao@example.com", entries)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	_, _, err = sink.Append("sessao-abc", "joao@example.com", entries)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(content), "# Browser log session: sessao-abc"))
	assert.Contains(t, string(content), "# Lead email: joao@example.com")
	assert.Equal(t, 2, strings.Count(string(content), "[ERROR] falha no microfone"))
}

func TestAppendEscapesEmbeddedNewlines(t *testing.T) {
	sink := NewDebugLogSink(t.TempDir())

	_, path, err := sink.Append("sessao-nl", "", []BrowserLogEntry{
		{Level: "warn", Message: "linha um\nlinha dois"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), `linha um\nlinha dois`)
	assert.NotContains(t, string(content), "linha um\nlinha dois")
}

func TestAppendUppercasesLevelAndFillsTimestamp(t *testing.T) {
	sink := NewDebugLogSink(t.TempDir())

	_, path, err := sink.Append("sessao-lvl", "", []BrowserLogEntry{
		{Level: "info", Message: "conectado"},
		{Message: "sem nível"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "[INFO] conectado")
	assert.Contains(t, string(content), "[LOG] sem nível")
}

func TestAppendSanitizesTraversalSessionID(t *testing.T) {
	root := t.TempDir()
	sink := NewDebugLogSink(root)

	_, path, err := sink.Append("../../etc", "", []BrowserLogEntry{
		{Level: "log", Message: "tentativa de escape"},
	})
	require.NoError(t, err)

	debugDir := filepath.Join(root, "debug", "browser_logs")
	rel, relErr := filepath.Rel(debugDir, path)
	require.NoError(t, relErr)
	assert.False(t, strings.HasPrefix(rel, ".."), "o arquivo nunca pode sair do diretório de debug")
	assert.NotContains(t, filepath.Base(path), "/")
}
