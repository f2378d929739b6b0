package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/audit"
	"github.com/stretchr/testify/assert"
)

type stubScanner struct {
	kind     domain.ResourceKind
	findings []domain.Finding
	err      error
}

func (s *stubScanner) Kind() domain.ResourceKind {
	return s.kind
}

func (s *stubScanner) Scan(_ context.Context, _ audit.Scope) ([]domain.Finding, error) {
	return s.findings, s.err
}

func TestController(t *testing.T) {
	ctx := context.Background()
	scope := audit.Scope{
		Account:  "123456789012",
		Region:   "eu-west-1",
		Required: domain.RequiredTags{"Environment"},
	}

	instanceFinding := domain.Finding{
		Account:      scope.Account,
		Region:       scope.Region,
		ResourceKind: domain.KindEC2Instance,
		ARN:          "arn:aws:ec2:eu-west-1:123456789012:instance/i-1",
		MissingTags:  []string{"Environment"},
	}
	volumeFinding := domain.Finding{
		Account:      scope.Account,
		Region:       scope.Region,
		ResourceKind: domain.KindEBSVolume,
		ARN:          "arn:aws:ec2:eu-west-1:123456789012:volume/vol-1",
		MissingTags:  []string{"Environment"},
	}

	t.Run("merges findings across kinds", func(t *testing.T) {
		ctrl, err := NewController(
			&stubScanner{kind: domain.KindEC2Instance, findings: []domain.Finding{instanceFinding}},
			&stubScanner{kind: domain.KindEBSVolume, findings: []domain.Finding{volumeFinding}},
		)
		assert.NoError(t, err)

		findings := ctrl.ScanRegion(ctx, scope)
		assert.ElementsMatch(t, []domain.Finding{instanceFinding, volumeFinding}, findings)
	})

	t.Run("failed kind contributes zero findings without blocking the rest", func(t *testing.T) {
		ctrl, err := NewController(
			&stubScanner{kind: domain.KindRDSInstance, err: errors.New("region disabled")},
			&stubScanner{kind: domain.KindEC2Instance, findings: []domain.Finding{instanceFinding}},
		)
		assert.NoError(t, err)

		findings := ctrl.ScanRegion(ctx, scope)
		assert.Equal(t, []domain.Finding{instanceFinding}, findings)
	})

	t.Run("every kind failing yields an empty region", func(t *testing.T) {
		ctrl, err := NewController(
			&stubScanner{kind: domain.KindEC2Instance, err: errors.New("no access")},
			&stubScanner{kind: domain.KindVPC, err: errors.New("no access")},
		)
		assert.NoError(t, err)

		assert.Empty(t, ctrl.ScanRegion(ctx, scope))
	})

	t.Run("rejects duplicate kinds", func(t *testing.T) {
		_, err := NewController(
			&stubScanner{kind: domain.KindEC2Instance},
			&stubScanner{kind: domain.KindEC2Instance},
		)
		assert.Error(t, err)
	})

	t.Run("rejects an empty scanner set", func(t *testing.T) {
		_, err := NewController()
		assert.Error(t, err)
	})
}
