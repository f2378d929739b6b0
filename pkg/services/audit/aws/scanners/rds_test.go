package scanners

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRDSAPI struct {
	mock.Mock
}

func (m *mockRDSAPI) DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rds.DescribeDBInstancesOutput), args.Error(1)
}

func (m *mockRDSAPI) ListTagsForResource(ctx context.Context, params *rds.ListTagsForResourceInput, _ ...func(*rds.Options)) (*rds.ListTagsForResourceOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rds.ListTagsForResourceOutput), args.Error(1)
}

func TestRDSScanner(t *testing.T) {
	ctx := context.Background()
	scope := testScope()
	dbARN := "arn:aws:rds:us-east-1:123456789012:db:orders"

	t.Run("reports instance missing part of the required set", func(t *testing.T) {
		api := new(mockRDSAPI)
		api.On("DescribeDBInstances", ctx, mock.AnythingOfType("*rds.DescribeDBInstancesInput")).
			Return(&rds.DescribeDBInstancesOutput{
				DBInstances: []rdstypes.DBInstance{
					{DBInstanceArn: aws.String(dbARN)},
				},
			}, nil)
		api.On("ListTagsForResource", ctx, mock.MatchedBy(func(in *rds.ListTagsForResourceInput) bool {
			return aws.ToString(in.ResourceName) == dbARN
		})).Return(&rds.ListTagsForResourceOutput{
			TagList: []rdstypes.Tag{
				{Key: aws.String("Environment"), Value: aws.String("prod")},
			},
		}, nil)

		findings, err := NewRDSScanner(api).Scan(ctx, scope)

		assert.NoError(t, err)
		assert.Len(t, findings, 1)
		assert.Equal(t, domain.KindRDSInstance, findings[0].ResourceKind)
		assert.Equal(t, dbARN, findings[0].ARN)
		assert.Equal(t, []string{"Owner"}, findings[0].MissingTags)
		api.AssertExpectations(t)
	})

	t.Run("failed tag lookup falls open to every required tag missing", func(t *testing.T) {
		api := new(mockRDSAPI)
		api.On("DescribeDBInstances", ctx, mock.AnythingOfType("*rds.DescribeDBInstancesInput")).
			Return(&rds.DescribeDBInstancesOutput{
				DBInstances: []rdstypes.DBInstance{
					{DBInstanceArn: aws.String(dbARN)},
				},
			}, nil)
		api.On("ListTagsForResource", ctx, mock.AnythingOfType("*rds.ListTagsForResourceInput")).
			Return(nil, errors.New("instance deleted mid-scan"))

		findings, err := NewRDSScanner(api).Scan(ctx, scope)

		assert.NoError(t, err)
		assert.Len(t, findings, 1)
		assert.Equal(t, []string{"Environment", "Owner"}, findings[0].MissingTags)
	})

	t.Run("listing failure surfaces as an error", func(t *testing.T) {
		api := new(mockRDSAPI)
		api.On("DescribeDBInstances", ctx, mock.AnythingOfType("*rds.DescribeDBInstancesInput")).
			Return(nil, errors.New("region disabled"))

		_, err := NewRDSScanner(api).Scan(ctx, scope)
		assert.Error(t, err)
	})
}
