package audit

import (
	"context"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// Scope identifies one unit of scanning work: which account, which
// region (or domain.GlobalRegion), and which tags are required.
type Scope struct {
	Account  string
	Region   string
	Required domain.RequiredTags
}

// Scanner checks every resource of a single kind within a scope and
// reports the ones missing required tags. A scanner error means the
// whole kind could not be listed; partial lookup failures inside a
// scan are handled by the scanner itself and never surface here.
type Scanner interface {
	Kind() domain.ResourceKind
	Scan(ctx context.Context, scope Scope) ([]domain.Finding, error)
}

// RegionScanner runs every region-scoped scanner for one region. It
// never fails: a kind that cannot be listed contributes zero findings.
type RegionScanner interface {
	ScanRegion(ctx context.Context, scope Scope) []domain.Finding
}

// RegionLister discovers the authoritative region list from the
// provider at scan time.
type RegionLister interface {
	Regions(ctx context.Context) ([]string, error)
}
