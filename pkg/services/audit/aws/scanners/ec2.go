package scanners

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/audit"
	"github.com/de-tools/tag-atlas/pkg/services/audit/tags"
)

// EC2API is the slice of the EC2 client the EC2-backed scanners use.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeVpcs(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	DescribeSubnets(ctx context.Context, params *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
}

func ec2TagMap(awsTags []types.Tag) map[string]string {
	if len(awsTags) == 0 {
		return nil
	}
	m := make(map[string]string, len(awsTags))
	for _, tag := range awsTags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

// ec2ARN builds the locator for EC2-owned resources, which the list
// calls do not return themselves.
func ec2ARN(scope audit.Scope, resource, id string) string {
	return fmt.Sprintf("arn:aws:ec2:%s:%s:%s/%s", scope.Region, scope.Account, resource, id)
}

type instanceScanner struct {
	client EC2API
}

func NewInstanceScanner(client EC2API) audit.Scanner {
	return &instanceScanner{client: client}
}

func (s *instanceScanner) Kind() domain.ResourceKind {
	return domain.KindEC2Instance
}

func (s *instanceScanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe EC2 instances: %w", err)
	}

	var findings []domain.Finding
	for _, reservation := range resp.Reservations {
		for _, instance := range reservation.Instances {
			missing := tags.Missing(ec2TagMap(instance.Tags), scope.Required)
			if len(missing) == 0 {
				continue
			}
			findings = append(findings, domain.Finding{
				Account:      scope.Account,
				Region:       scope.Region,
				ResourceKind: domain.KindEC2Instance,
				ARN:          ec2ARN(scope, "instance", aws.ToString(instance.InstanceId)),
				MissingTags:  missing,
			})
		}
	}
	return findings, nil
}

type volumeScanner struct {
	client EC2API
}

func NewVolumeScanner(client EC2API) audit.Scanner {
	return &volumeScanner{client: client}
}

func (s *volumeScanner) Kind() domain.ResourceKind {
	return domain.KindEBSVolume
}

func (s *volumeScanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe EBS volumes: %w", err)
	}

	var findings []domain.Finding
	for _, volume := range resp.Volumes {
		missing := tags.Missing(ec2TagMap(volume.Tags), scope.Required)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Account:      scope.Account,
			Region:       scope.Region,
			ResourceKind: domain.KindEBSVolume,
			ARN:          ec2ARN(scope, "volume", aws.ToString(volume.VolumeId)),
			MissingTags:  missing,
		})
	}
	return findings, nil
}

type vpcScanner struct {
	client EC2API
}

func NewVPCScanner(client EC2API) audit.Scanner {
	return &vpcScanner{client: client}
}

func (s *vpcScanner) Kind() domain.ResourceKind {
	return domain.KindVPC
}

func (s *vpcScanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe VPCs: %w", err)
	}

	var findings []domain.Finding
	for _, vpc := range resp.Vpcs {
		missing := tags.Missing(ec2TagMap(vpc.Tags), scope.Required)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Account:      scope.Account,
			Region:       scope.Region,
			ResourceKind: domain.KindVPC,
			ARN:          ec2ARN(scope, "vpc", aws.ToString(vpc.VpcId)),
			MissingTags:  missing,
		})
	}
	return findings, nil
}

type securityGroupScanner struct {
	client EC2API
}

func NewSecurityGroupScanner(client EC2API) audit.Scanner {
	return &securityGroupScanner{client: client}
}

func (s *securityGroupScanner) Kind() domain.ResourceKind {
	return domain.KindSecurityGroup
}

func (s *securityGroupScanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe security groups: %w", err)
	}

	var findings []domain.Finding
	for _, group := range resp.SecurityGroups {
		missing := tags.Missing(ec2TagMap(group.Tags), scope.Required)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Account:      scope.Account,
			Region:       scope.Region,
			ResourceKind: domain.KindSecurityGroup,
			ARN:          ec2ARN(scope, "security-group", aws.ToString(group.GroupId)),
			MissingTags:  missing,
		})
	}
	return findings, nil
}

type subnetScanner struct {
	client EC2API
}

func NewSubnetScanner(client EC2API) audit.Scanner {
	return &subnetScanner{client: client}
}

func (s *subnetScanner) Kind() domain.ResourceKind {
	return domain.KindSubnet
}

func (s *subnetScanner) Scan(ctx context.Context, scope audit.Scope) ([]domain.Finding, error) {
	resp, err := s.client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets: %w", err)
	}

	var findings []domain.Finding
	for _, subnet := range resp.Subnets {
		missing := tags.Missing(ec2TagMap(subnet.Tags), scope.Required)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Account:      scope.Account,
			Region:       scope.Region,
			ResourceKind: domain.KindSubnet,
			ARN:          ec2ARN(scope, "subnet", aws.ToString(subnet.SubnetId)),
			MissingTags:  missing,
		})
	}
	return findings, nil
}
