package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

// DebugLogSink acumula logs do console do navegador, um arquivo por
// sessão, em <root>/debug/browser_logs/<session>.log.
type DebugLogSink struct {
	Root string
}

func NewDebugLogSink(root string) *DebugLogSink {
	return &DebugLogSink{Root: root}
}

type BrowserLogEntry struct {
	Timestamp string `json:"timestamp,omitempty"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Append grava um lote de entradas na sessão indicada e devolve quantas
// linhas foram escritas. Lote vazio é no-op bem-sucedido e não cria
// arquivo. Na primeira escrita da sessão sai um bloco de cabeçalho.
func (s *DebugLogSink) Append(sessionID, leadEmail string, entries []BrowserLogEntry) (int, string, error) {
	if len(entries) == 0 {
		return 0, "", nil
	}

	dir := filepath.Join(s.Root, "debug", "browser_logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, "", usecase.NewPersistenceError("erro ao criar diretório de debug", err)
	}

	session := SafeComponent(sessionID, "unknown_session")
	path := filepath.Join(dir, session+".log")

	_, statErr := os.Stat(path)
	firstWrite := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, "", usecase.NewPersistenceError("erro ao abrir arquivo de log", err)
	}
	defer f.Close()

	var b strings.Builder
	if firstWrite {
		b.WriteString(fmt.Sprintf("# Browser log session: %s\n", session))
		b.WriteString(fmt.Sprintf("# Created at (UTC): %s\n", time.Now().UTC().Format(time.RFC3339)))
		if leadEmail != "" {
			b.WriteString(fmt.Sprintf("# Lead email: %s\n", leadEmail))
		}
		b.WriteString("\n")
	}

	for _, entry := range entries {
		ts := entry.Timestamp
		if ts == "" {
			ts = time.Now().UTC().Format(time.RFC3339)
		}
		level := strings.ToUpper(entry.Level)
		if level == "" {
			level = "LOG"
		}
		message := strings.ReplaceAll(entry.Message, "\n", `\n`)
		b.WriteString(fmt.Sprintf("[%s] [%s] %s\n", ts, level, message))
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return 0, "", usecase.NewPersistenceError("erro ao gravar logs", err)
	}

	return len(entries), path, nil
}
