package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/audit"
	"github.com/de-tools/tag-atlas/pkg/services/audit/aws/scanners"
	"github.com/rs/zerolog"
)

// controller runs every region-scoped scanner for one region. A kind
// that cannot be listed is logged and contributes zero findings; the
// region as a whole never fails the fleet scan.
type controller struct {
	scanners map[domain.ResourceKind]audit.Scanner
}

// NewRegionController builds a controller with region-bound clients
// for every region-scoped resource kind.
func NewRegionController(cfg awssdk.Config, region string) audit.RegionScanner {
	regionCfg := RegionConfig(cfg, region)
	ec2Client := ec2.NewFromConfig(regionCfg)

	kindScanners := []audit.Scanner{
		scanners.NewInstanceScanner(ec2Client),
		scanners.NewVolumeScanner(ec2Client),
		scanners.NewVPCScanner(ec2Client),
		scanners.NewSecurityGroupScanner(ec2Client),
		scanners.NewSubnetScanner(ec2Client),
		scanners.NewLambdaScanner(lambda.NewFromConfig(regionCfg)),
		scanners.NewRDSScanner(rds.NewFromConfig(regionCfg)),
	}

	byKind := make(map[domain.ResourceKind]audit.Scanner, len(kindScanners))
	for _, s := range kindScanners {
		byKind[s.Kind()] = s
	}
	return &controller{scanners: byKind}
}

// NewGlobalScanners builds the scanners for region-less resource
// kinds, run once per fleet scan after the region fan-out.
func NewGlobalScanners(cfg awssdk.Config) []audit.Scanner {
	return []audit.Scanner{
		scanners.NewS3Scanner(s3.NewFromConfig(cfg)),
	}
}

func NewController(kindScanners ...audit.Scanner) (audit.RegionScanner, error) {
	ctrl := &controller{
		scanners: make(map[domain.ResourceKind]audit.Scanner),
	}

	for _, s := range kindScanners {
		kind := s.Kind()
		if _, exists := ctrl.scanners[kind]; exists {
			return nil, fmt.Errorf("duplicate scanner for resource kind: %s", kind)
		}
		ctrl.scanners[kind] = s
	}

	if len(ctrl.scanners) == 0 {
		return nil, fmt.Errorf("at least one scanner must be provided")
	}

	return ctrl, nil
}

func (c *controller) ScanRegion(ctx context.Context, scope audit.Scope) []domain.Finding {
	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, scanner := range c.scanners {
		kindFindings, err := scanner.Scan(ctx, scope)
		if err != nil {
			logger.Error().
				Err(err).
				Str("region", scope.Region).
				Str("kind", string(scanner.Kind())).
				Msg("kind scan failed, kind contributes no findings")
			continue
		}
		findings = append(findings, kindFindings...)
	}
	return findings
}
