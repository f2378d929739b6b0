package domain

// GlobalRegion is the scope used for resource kinds that are not tied
// to a single AWS region, such as S3 buckets.
const GlobalRegion = "Global"

type ResourceKind string

const (
	KindEC2Instance    ResourceKind = "EC2 Instance"
	KindEBSVolume      ResourceKind = "EBS Volume"
	KindVPC            ResourceKind = "VPC"
	KindSecurityGroup  ResourceKind = "Security Group"
	KindSubnet         ResourceKind = "Subnet"
	KindLambdaFunction ResourceKind = "Lambda Function"
	KindRDSInstance    ResourceKind = "RDS Instance"
	KindS3Bucket       ResourceKind = "S3 Bucket"
)

// Finding records a single resource that is missing one or more of the
// required tags. MissingTags is never empty: a resource with all
// required tags present produces no Finding at all.
type Finding struct {
	Account      string
	Region       string
	ResourceKind ResourceKind
	ARN          string
	MissingTags  []string
}

// RequiredTags is the ordered list of tag keys every resource is
// expected to carry. Loaded once per run and read-only afterwards.
type RequiredTags []string
