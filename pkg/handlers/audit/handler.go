package audit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/tag-atlas/pkg/models/api"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/report"
	"github.com/de-tools/tag-atlas/pkg/store/csvstore"
	"github.com/rs/zerolog"
)

// DatasetStore is the slice of the findings store the handler reads
// through. It never writes.
type DatasetStore interface {
	Latest() (string, error)
	Read(path string) ([]domain.Finding, error)
}

type Handler struct {
	store      DatasetStore
	sampleSize int
}

func NewHandler(store DatasetStore, sampleSize int) *Handler {
	if sampleSize <= 0 {
		sampleSize = report.DefaultSampleSize
	}
	return &Handler{store: store, sampleSize: sampleSize}
}

// GetSummary serves the frequency tables over the newest dataset.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	path, findings, ok := h.loadLatest(w, logger)
	if !ok {
		return
	}

	summary := report.Summarize(findings)
	response := api.Summary{
		Dataset:  path,
		Total:    summary.Total,
		ByKind:   mapCounts(summary.ByKind),
		ByRegion: mapCounts(summary.ByRegion),
		ByTag:    mapCounts(summary.ByTag),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode summary")
	}
}

// ListFindings serves a bounded sample of findings for one resource
// kind, selected with the `resource` query parameter.
func (h *Handler) ListFindings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	resource := r.URL.Query().Get("resource")
	if resource == "" {
		http.Error(w, "missing `resource` query parameter", http.StatusBadRequest)
		return
	}

	_, findings, ok := h.loadLatest(w, logger)
	if !ok {
		return
	}

	sample := report.SampleByKind(findings, domain.ResourceKind(resource), h.sampleSize)
	response := api.FindingList{
		Resource: resource,
		Omitted:  sample.Omitted,
	}
	for _, finding := range sample.Findings {
		response.Findings = append(response.Findings, api.Finding{
			Account:     finding.Account,
			Region:      finding.Region,
			Resource:    string(finding.ResourceKind),
			ARN:         finding.ARN,
			MissingTags: finding.MissingTags,
		})
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Str("resource", resource).Msg("failed to encode findings")
	}
}

func (h *Handler) loadLatest(w http.ResponseWriter, logger *zerolog.Logger) (string, []domain.Finding, bool) {
	path, err := h.store.Latest()
	if errors.Is(err, csvstore.ErrNoDataset) {
		http.Error(w, "no findings dataset available, run a scan first", http.StatusNotFound)
		return "", nil, false
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to locate dataset")
		http.Error(w, "failed to locate dataset", http.StatusInternalServerError)
		return "", nil, false
	}

	findings, err := h.store.Read(path)
	if err != nil {
		logger.Error().Err(err).Str("dataset", path).Msg("failed to read dataset")
		http.Error(w, "failed to read dataset", http.StatusInternalServerError)
		return "", nil, false
	}
	return path, findings, true
}

func mapCounts(counts []report.Count) []api.Count {
	var result []api.Count
	for _, c := range counts {
		result = append(result, api.Count{Key: c.Key, Count: c.Count})
	}
	return result
}
