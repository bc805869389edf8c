package database

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-voiceagent/internal/entity"
	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

// Fallback em arquivo usado quando DATABASE_URL não está definido.
// O layout de colunas é o mesmo do backend legado, acrescido do
// contato_feito; arquivos antigos são migrados na primeira leitura.
var csvHeader = []string{"id", "timestamp", "nome", "email", "telefone", "empresa", "contato_feito"}

// Layouts de timestamp aceitos: RFC3339 (este backend) e o isoformat
// sem fuso gravado pelo backend legado.
var csvTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"}

type CSVLeadRepository struct {
	mu   sync.Mutex
	path string
}

func NewCSVLeadRepository(dataDir string) *CSVLeadRepository {
	return &CSVLeadRepository{path: filepath.Join(dataDir, "leads.csv")}
}

func (r *CSVLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFile(); err != nil {
		return usecase.NewUnavailableError("erro ao preparar arquivo de leads", err)
	}

	lead.ID = uuid.New().String()
	lead.CreatedAt = time.Now().UTC()
	lead.ContatoFeito = false

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return usecase.NewUnavailableError("erro ao abrir arquivo de leads", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(recordFromLead(*lead)); err != nil {
		return usecase.NewPersistenceError("erro ao gravar lead no CSV", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return usecase.NewPersistenceError("erro ao gravar lead no CSV", err)
	}

	return nil
}

func (r *CSVLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return []entity.Lead{}, nil
	}

	leads, err := r.readAll()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})

	return leads, nil
}

func (r *CSVLeadRepository) UpdateContactFlag(ctx context.Context, leadID string, value bool) error {
	if leadID == "" {
		return usecase.NewValidationError("lead_id inválido: vazio")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return usecase.NewNotFoundError("lead não encontrado: " + leadID)
	}

	leads, err := r.readAll()
	if err != nil {
		return err
	}

	found := false
	for i := range leads {
		if leads[i].ID == leadID {
			leads[i].ContatoFeito = value
			found = true
			break
		}
	}
	if !found {
		return usecase.NewNotFoundError("lead não encontrado: " + leadID)
	}

	return r.writeAll(leads)
}

// ensureFile cria o CSV com cabeçalho ou migra um arquivo legado:
// linhas sem id ganham ids "legacy_N" e a coluna contato_feito é
// acrescentada com false quando ausente.
func (r *CSVLeadRepository) ensureFile() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return r.writeAll(nil)
	}
	if err != nil {
		return err
	}

	records, err := csv.NewReader(f).ReadAll()
	f.Close()
	if err != nil || len(records) == 0 {
		if err != nil {
			slog.Warn("arquivo de leads ilegível, recriando", "path", r.path, "error", err)
		}
		return r.writeAll(nil)
	}

	header := records[0]
	if len(header) == len(csvHeader) && header[0] == "id" {
		return nil
	}

	var leads []entity.Lead
	for i, rec := range records[1:] {
		var lead entity.Lead
		if header[0] == "id" {
			lead = leadFromRecord(rec)
		} else {
			// Formato legado sem id: timestamp,nome,email,telefone,empresa
			lead = leadFromRecord(append([]string{fmt.Sprintf("legacy_%d", i+1)}, rec...))
		}
		leads = append(leads, lead)
	}

	slog.Info("migrando arquivo de leads legado", "path", r.path, "rows", len(leads))
	return r.writeAll(leads)
}

func (r *CSVLeadRepository) readAll() ([]entity.Lead, error) {
	if err := r.ensureFile(); err != nil {
		return nil, usecase.NewUnavailableError("erro ao preparar arquivo de leads", err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, usecase.NewUnavailableError("erro ao abrir arquivo de leads", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, usecase.NewPersistenceError("erro ao ler arquivo de leads", err)
	}

	leads := []entity.Lead{}
	for i, rec := range records {
		if i == 0 {
			continue // cabeçalho
		}
		leads = append(leads, leadFromRecord(rec))
	}
	return leads, nil
}

func (r *CSVLeadRepository) writeAll(leads []entity.Lead) error {
	f, err := os.Create(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, lead := range leads {
		if err := w.Write(recordFromLead(lead)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func recordFromLead(lead entity.Lead) []string {
	return []string{
		lead.ID,
		lead.CreatedAt.Format(time.RFC3339Nano),
		lead.Nome,
		lead.Email,
		lead.Telefone,
		lead.Empresa,
		strconv.FormatBool(lead.ContatoFeito),
	}
}

func leadFromRecord(rec []string) entity.Lead {
	var lead entity.Lead
	if len(rec) > 0 {
		lead.ID = rec[0]
	}
	if len(rec) > 1 {
		lead.CreatedAt = parseCSVTime(rec[1])
	}
	if len(rec) > 2 {
		lead.Nome = rec[2]
	}
	if len(rec) > 3 {
		lead.Email = rec[3]
	}
	if len(rec) > 4 {
		lead.Telefone = rec[4]
	}
	if len(rec) > 5 {
		lead.Empresa = rec[5]
	}
	if len(rec) > 6 {
		lead.ContatoFeito, _ = strconv.ParseBool(rec[6])
	}
	return lead
}

func parseCSVTime(raw string) time.Time {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
