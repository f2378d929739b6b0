package scanners

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/audit"
	"github.com/de-tools/tag-atlas/pkg/services/audit/tags"
	"github.com/rs/zerolog"
)

type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
}

// s3Scanner is the one global-scope scanner: buckets are listed once
// per account, not per region, and reported under the Global scope.
type s3Scanner struct {
	client S3API
}

func NewS3Scanner(client S3API) audit.Scanner {
	return &s3Scanner{client: client}
}

func (s *s3Scanner) Kind() domain.ResourceKind {
	return domain.KindS3Bucket
}

func s3TagMap(awsTags []s3types.Tag) map[string]string {
	if len(awsTags) == 0 {
		return nil
	}
	m := make(map[string]string, len(awsTags))
	for _, tag := range awsTags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

// Scan looks up tagging per bucket. GetBucketTagging fails with
// NoSuchTagSet for buckets that have never been tagged, so the
// fail-open path also covers the genuinely untagged bucket: both
// report every required tag missing.
func (s *s3Scanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 buckets: %w", err)
	}

	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, bucket := range resp.Buckets {
		name := aws.ToString(bucket.Name)

		var existing map[string]string
		tagsResp, err := s.client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
			Bucket: aws.String(name),
		})
		if err != nil {
			logger.Debug().
				Err(err).
				Str("bucket", name).
				Msg("tag lookup failed, treating bucket as untagged")
		} else {
			existing = s3TagMap(tagsResp.TagSet)
		}

		missing := tags.Missing(existing, scope.Required)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Account:      scope.Account,
			Region:       scope.Region,
			ResourceKind: domain.KindS3Bucket,
			ARN:          fmt.Sprintf("arn:aws:s3:::%s", name),
			MissingTags:  missing,
		})
	}
	return findings, nil
}
