package scanners

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/audit"
	"github.com/de-tools/tag-atlas/pkg/services/audit/tags"
	"github.com/rs/zerolog"
)

type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	ListTagsForResource(ctx context.Context, params *rds.ListTagsForResourceInput, optFns ...func(*rds.Options)) (*rds.ListTagsForResourceOutput, error)
}

type rdsScanner struct {
	client RDSAPI
}

func NewRDSScanner(client RDSAPI) audit.Scanner {
	return &rdsScanner{client: client}
}

func (s *rdsScanner) Kind() domain.ResourceKind {
	return domain.KindRDSInstance
}

func rdsTagMap(awsTags []rdstypes.Tag) map[string]string {
	if len(awsTags) == 0 {
		return nil
	}
	m := make(map[string]string, len(awsTags))
	for _, tag := range awsTags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

// Scan lists every DB instance and looks up its tags per instance. A
// failed lookup falls open to "every required tag missing".
func (s *rdsScanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe RDS instances: %w", err)
	}

	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, instance := range resp.DBInstances {
		arn := aws.ToString(instance.DBInstanceArn)

		var existing map[string]string
		tagsResp, err := s.client.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
			ResourceName: aws.String(arn),
		})
		if err != nil {
			logger.Warn().
				Err(err).
				Str("instance", arn).
				Msg("tag lookup failed, treating instance as untagged")
		} else {
			existing = rdsTagMap(tagsResp.TagList)
		}

		missing := tags.Missing(existing, scope.Required)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Account:      scope.Account,
			Region:       scope.Region,
			ResourceKind: domain.KindRDSInstance,
			ARN:          arn,
			MissingTags:  missing,
		})
	}
	return findings, nil
}
