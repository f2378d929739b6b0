package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// RegionExplorer discovers the account's enabled regions. The list is
// never hardcoded: a region enabled yesterday is scanned today.
type RegionExplorer struct {
	client *ec2.Client
}

func NewRegionExplorer(cfg awssdk.Config) *RegionExplorer {
	return &RegionExplorer{client: ec2.NewFromConfig(cfg)}
}

func (e *RegionExplorer) Regions(ctx context.Context) ([]string, error) {
	resp, err := e.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	var regions []string
	for _, region := range resp.Regions {
		if region.RegionName != nil {
			regions = append(regions, *region.RegionName)
		}
	}
	return regions, nil
}

// AccountID resolves the identifier of the account the credentials
// belong to.
func AccountID(ctx context.Context, cfg awssdk.Config) (string, error) {
	identity, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	return awssdk.ToString(identity.Account), nil
}
