package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// ErrNoDataset is returned by Latest when the output directory holds
// no findings dataset at all.
var ErrNoDataset = errors.New("no findings dataset found")

const (
	filePrefix = "missing_tags_resources_"
	// legacyPrefix is the naming convention older runs used; Latest
	// still falls back to it so analyze keeps working across upgrades.
	legacyPrefix = "untagged_resources_"

	timestampLayout = "20060102_150405"
	tagSeparator    = ", "
)

var header = []string{"Account", "Region", "Resource", "ARN", "Missing_Tags"}

// Store persists findings as one timestamped CSV dataset per scan run
// and reads datasets back for analysis.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Write flushes one scan run to a new dataset file named after the run
// timestamp, creating the output directory if needed. It returns the
// path of the written file.
func (s *Store) Write(findings []domain.Finding, runTime time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, filePrefix+runTime.Format(timestampLayout)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write dataset header: %w", err)
	}
	for _, finding := range findings {
		row := []string{
			finding.Account,
			finding.Region,
			string(finding.ResourceKind),
			finding.ARN,
			strings.Join(finding.MissingTags, tagSeparator),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write dataset row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush dataset: %w", err)
	}
	return path, nil
}

// Latest returns the newest dataset file in the output directory, or
// ErrNoDataset when none exists.
func (s *Store) Latest() (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*.csv"))
	if err != nil {
		return "", fmt.Errorf("failed to list datasets: %w", err)
	}
	if len(matches) == 0 {
		matches, err = filepath.Glob(filepath.Join(s.dir, legacyPrefix+"*.csv"))
		if err != nil {
			return "", fmt.Errorf("failed to list datasets: %w", err)
		}
	}
	if len(matches) == 0 {
		return "", ErrNoDataset
	}

	newest := ""
	var newestMod time.Time
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = path
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", ErrNoDataset
	}
	return newest, nil
}

// Read parses a dataset file back into findings, preserving row order.
func (s *Store) Read(path string) ([]domain.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// First row is the header.
	var findings []domain.Finding
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("malformed dataset row in %s: %v", path, row)
		}
		findings = append(findings, domain.Finding{
			Account:      row[0],
			Region:       row[1],
			ResourceKind: domain.ResourceKind(row[2]),
			ARN:          row[3],
			MissingTags:  strings.Split(row[4], tagSeparator),
		})
	}
	return findings, nil
}
