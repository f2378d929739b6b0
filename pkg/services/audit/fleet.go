package audit

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultMaxWorkers = 15

// Fleet fans one region scan per discovered region onto a bounded
// worker pool, then runs the global-scope scanners (S3) once, and
// merges everything into a single slice. The merge happens in exactly
// one goroutine, fed by a results channel, so no finding is lost or
// duplicated under concurrent completion.
type Fleet struct {
	regions        RegionLister
	newRegion      func(region string) RegionScanner
	globalScanners []Scanner
	maxWorkers     int
}

type FleetConfig struct {
	Regions        RegionLister
	NewRegion      func(region string) RegionScanner
	GlobalScanners []Scanner
	// MaxWorkers caps concurrently running region scans. Zero or
	// negative falls back to DefaultMaxWorkers.
	MaxWorkers int
}

func NewFleet(cfg FleetConfig) *Fleet {
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}
	return &Fleet{
		regions:        cfg.Regions,
		newRegion:      cfg.NewRegion,
		globalScanners: cfg.GlobalScanners,
		maxWorkers:     workers,
	}
}

// Scan runs the full fleet scan for one account. It returns only after
// every region task and the global pass have finished; the caller
// never observes a partial result. Findings carry no ordering
// guarantee across regions or kinds.
func (f *Fleet) Scan(ctx context.Context, account string, required domain.RequiredTags) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	regions, err := f.regions.Regions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover regions: %w", err)
	}
	logger.Info().Int("regions", len(regions)).Msg("starting fleet scan")

	results := make(chan []domain.Finding)
	sem := make(chan struct{}, f.maxWorkers)
	var wg sync.WaitGroup

	for _, region := range regions {
		wg.Add(1)
		go func(region string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- f.newRegion(region).ScanRegion(ctx, Scope{
				Account:  account,
				Region:   region,
				Required: required,
			})
		}(region)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []domain.Finding
	for batch := range results {
		all = append(all, batch...)
	}

	for _, scanner := range f.globalScanners {
		findings, err := scanner.Scan(ctx, Scope{
			Account:  account,
			Region:   domain.GlobalRegion,
			Required: required,
		})
		if err != nil {
			logger.Error().
				Err(err).
				Str("kind", string(scanner.Kind())).
				Msg("global scan failed, kind contributes no findings")
			continue
		}
		all = append(all, findings...)
	}

	logger.Info().Int("findings", len(all)).Msg("fleet scan complete")
	return all, nil
}
