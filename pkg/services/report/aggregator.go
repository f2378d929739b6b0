package report

import (
	"sort"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// DefaultSampleSize bounds the per-kind listing in rendered reports.
const DefaultSampleSize = 5

// Count is one bucket of a frequency table.
type Count struct {
	Key   string
	Count int
}

// Summary holds the grouped frequency tables for one dataset. Every
// table is sorted by descending count; ties keep first-seen order so
// the output is deterministic for a given dataset.
type Summary struct {
	Total    int
	ByKind   []Count
	ByRegion []Count
	ByTag    []Count
}

// Sample is a bounded listing of findings for one resource kind, plus
// how many findings the bound cut off.
type Sample struct {
	Findings []domain.Finding
	Omitted  int
}

// counter accumulates frequencies while remembering insertion order,
// so descending sorts break ties deterministically.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *counter) mostCommon() []Count {
	result := make([]Count, 0, len(c.keys))
	for _, key := range c.keys {
		result = append(result, Count{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// Summarize computes the frequency tables over a dataset. A finding
// with k missing tags contributes to k buckets of the per-tag table.
func Summarize(findings []domain.Finding) Summary {
	kinds := newCounter()
	regions := newCounter()
	missing := newCounter()

	for _, finding := range findings {
		kinds.add(string(finding.ResourceKind))
		regions.add(finding.Region)
		for _, tag := range finding.MissingTags {
			missing.add(tag)
		}
	}

	return Summary{
		Total:    len(findings),
		ByKind:   kinds.mostCommon(),
		ByRegion: regions.mostCommon(),
		ByTag:    missing.mostCommon(),
	}
}

// SampleByKind returns the first limit findings of the given kind in
// dataset order and counts the rest as omitted.
func SampleByKind(findings []domain.Finding, kind domain.ResourceKind, limit int) Sample {
	if limit <= 0 {
		limit = DefaultSampleSize
	}

	var matched []domain.Finding
	for _, finding := range findings {
		if finding.ResourceKind == kind {
			matched = append(matched, finding)
		}
	}

	if len(matched) <= limit {
		return Sample{Findings: matched}
	}
	return Sample{
		Findings: matched[:limit],
		Omitted:  len(matched) - limit,
	}
}
