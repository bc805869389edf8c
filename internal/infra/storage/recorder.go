package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

// Formatos já encapsulados (ex.: gravação do browser) são gravados
// byte a byte, sem conversão.
var passthroughFormats = map[string]bool{
	"webm": true,
	"ogg":  true,
	"wav":  true,
	"mp3":  true,
	"m4a":  true,
}

// Recorder grava transcrições e áudios da conversa numa árvore de
// diretórios por lead:
//
//	<root>/transcripts/<email>/<timestamp>_<speaker>.txt
//	<root>/audio/<email>/{user_audio|agent_audio}/<timestamp>_<speaker>_<event>.<ext>
type Recorder struct {
	Root     string
	Encoders []Encoder
}

func NewRecorder(root string) *Recorder {
	return &Recorder{
		Root:     root,
		Encoders: DefaultChain(),
	}
}

// SaveTranscript grava uma transcrição em texto plano e devolve o caminho.
// Colisão de timestamp+speaker sobrescreve o arquivo anterior; é um caso
// de borda aceito, não tratado.
func (r *Recorder) SaveTranscript(leadEmail, speaker, text, timestamp string) (string, error) {
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	dir := filepath.Join(r.Root, "transcripts", SafeEmail(leadEmail))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", usecase.NewPersistenceError("erro ao criar diretório do lead", err)
	}

	filename := fmt.Sprintf("%s_%s.txt", SafeTimestamp(timestamp), SafeComponent(speaker, "user"))
	path := filepath.Join(dir, filename)

	content := fmt.Sprintf("Timestamp: %s\nSpeaker: %s\nText: %s\n", timestamp, speaker, text)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", usecase.NewPersistenceError("erro ao salvar transcrição", err)
	}

	slog.Debug("transcrição salva", "path", path, "speaker", speaker)
	return path, nil
}

// SaveAudio decodifica o payload base64 e grava o áudio. Formatos da
// lista de passthrough vão direto para o disco; o resto é tratado como
// PCM 16 kHz mono 16-bit e passa pela cadeia de encoders (mp3 → wav →
// pcm cru). O formato retornado sempre corresponde à extensão gravada.
func (r *Recorder) SaveAudio(ctx context.Context, leadEmail, speaker, audioBase64 string, eventID int, timestamp, declaredFormat string) (string, string, error) {
	raw, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return "", "", usecase.NewValidationError("erro ao decodificar áudio base64: " + err.Error())
	}

	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	subfolder := "user_audio"
	if speaker == "agent" {
		subfolder = "agent_audio"
	}

	dir := filepath.Join(r.Root, "audio", SafeEmail(leadEmail), subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", usecase.NewPersistenceError("erro ao criar diretório de áudio", err)
	}

	format := strings.ToLower(strings.TrimSpace(declaredFormat))
	var out []byte
	if passthroughFormats[format] {
		out = raw
	} else {
		out, format = Transcode(ctx, raw, r.Encoders)
	}

	filename := fmt.Sprintf("%s_%s_%d.%s",
		SafeTimestamp(timestamp), SafeComponent(speaker, "user"), eventID, format)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", "", usecase.NewPersistenceError("erro ao salvar áudio", err)
	}

	slog.Debug("áudio salvo", "path", path, "format", format, "bytes", len(out))
	return path, format, nil
}
