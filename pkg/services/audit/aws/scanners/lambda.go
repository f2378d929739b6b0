package scanners

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/audit"
	"github.com/de-tools/tag-atlas/pkg/services/audit/tags"
	"github.com/rs/zerolog"
)

type LambdaAPI interface {
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	ListTags(ctx context.Context, params *lambda.ListTagsInput, optFns ...func(*lambda.Options)) (*lambda.ListTagsOutput, error)
}

type lambdaScanner struct {
	client LambdaAPI
}

func NewLambdaScanner(client LambdaAPI) audit.Scanner {
	return &lambdaScanner{client: client}
}

func (s *lambdaScanner) Kind() domain.ResourceKind {
	return domain.KindLambdaFunction
}

// Scan lists every function and looks up its tags one call at a time,
// since ListFunctions does not return them inline. A failed tag lookup
// marks the function missing every required tag rather than dropping
// it from the audit: over-reporting beats silently skipping a resource
// we could not inspect.
func (s *lambdaScanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.ListFunctions(ctx, &lambda.ListFunctionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list Lambda functions: %w", err)
	}

	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, function := range resp.Functions {
		arn := aws.ToString(function.FunctionArn)

		var existing map[string]string
		tagsResp, err := s.client.ListTags(ctx, &lambda.ListTagsInput{Resource: aws.String(arn)})
		if err != nil {
			logger.Warn().
				Err(err).
				Str("function", arn).
				Msg("tag lookup failed, treating function as untagged")
		} else {
			existing = tagsResp.Tags
		}

		missing := tags.Missing(existing, scope.Required)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Account:      scope.Account,
			Region:       scope.Region,
			ResourceKind: domain.KindLambdaFunction,
			ARN:          arn,
			MissingTags:  missing,
		})
	}
	return findings, nil
}
