package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os/exec"
)

// O áudio do Conversational AI chega como PCM 16-bit mono a 16 kHz
// (agent_output_audio_format: "pcm_16000"); o áudio do usuário usa a
// mesma taxa.
const (
	pcmSampleRate = 16000
	pcmChannels   = 1
	pcmSampleBits = 16
)

// Encoder converte PCM bruto para um formato de arquivo. Name é a
// extensão gravada quando a conversão dá certo.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, pcm []byte) ([]byte, error)
}

// Transcode tenta cada encoder na ordem e devolve o primeiro sucesso.
// Se todos falharem, devolve os bytes PCM originais com formato "pcm":
// uma gravação nunca é perdida só porque o conversor não está disponível.
func Transcode(ctx context.Context, pcm []byte, chain []Encoder) ([]byte, string) {
	for _, enc := range chain {
		out, err := enc.Encode(ctx, pcm)
		if err != nil {
			slog.Warn("falha ao converter áudio", "encoder", enc.Name(), "error", err)
			continue
		}
		return out, enc.Name()
	}
	return pcm, "pcm"
}

// DefaultChain: MP3 via ffmpeg, depois container WAV, depois PCM cru
// (o último nível é o fallback implícito de Transcode).
func DefaultChain() []Encoder {
	return []Encoder{&FFmpegEncoder{}, WAVEncoder{}}
}

// FFmpegEncoder delega a conversão PCM→MP3 ao binário ffmpeg via pipes.
type FFmpegEncoder struct {
	Binary string // vazio usa "ffmpeg" do PATH
}

func (e *FFmpegEncoder) Name() string { return "mp3" }

func (e *FFmpegEncoder) Encode(ctx context.Context, pcm []byte) ([]byte, error) {
	binary := e.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, binary,
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le",
		"-ar", fmt.Sprint(pcmSampleRate),
		"-ac", fmt.Sprint(pcmChannels),
		"-i", "pipe:0",
		"-f", "mp3",
		"-b:a", "128k",
		"pipe:1",
	)

	var out, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(pcm)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg falhou: %w (%s)", err, stderr.String())
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg não produziu saída")
	}

	return out.Bytes(), nil
}

// WAVEncoder embrulha o PCM num container WAV (cabeçalho RIFF canônico
// de 44 bytes). Não depende de nada externo, então serve de segundo
// nível quando o ffmpeg não está instalado.
type WAVEncoder struct{}

func (WAVEncoder) Name() string { return "wav" }

func (WAVEncoder) Encode(ctx context.Context, pcm []byte) ([]byte, error) {
	const headerLen = 44
	byteRate := pcmSampleRate * pcmChannels * pcmSampleBits / 8
	blockAlign := pcmChannels * pcmSampleBits / 8

	buf := bytes.NewBuffer(make([]byte, 0, headerLen+len(pcm)))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16)) // tamanho do chunk fmt
	binary.Write(buf, binary.LittleEndian, uint16(1))  // 1 = PCM linear
	binary.Write(buf, binary.LittleEndian, uint16(pcmChannels))
	binary.Write(buf, binary.LittleEndian, uint32(pcmSampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(pcmSampleBits))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}
