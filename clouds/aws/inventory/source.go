// Package inventory fetches the compute-offering catalog from EC2.
package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"migration-cost/core/types"
	"migration-cost/internal/errors"
	"migration-cost/internal/logging"
)

// Source lists the compute offerings available in one region.
type Source struct {
	client *ec2.Client
}

// New builds a source against the configured region.
func New(ctx context.Context, region string) (*Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Config("failed to load AWS configuration", err)
	}
	return &Source{client: ec2.NewFromConfig(cfg)}, nil
}

// NewFromClient builds a source over an existing client.
func NewFromClient(client *ec2.Client) *Source {
	return &Source{client: client}
}

// FetchOfferings pages through every instance type and returns it as a
// compute offering (memory reported in MiB is converted to GiB).
func (s *Source) FetchOfferings(ctx context.Context) ([]types.ComputeOffering, error) {
	log := logging.Named("inventory")

	var offerings []types.ComputeOffering
	paginator := ec2.NewDescribeInstanceTypesPaginator(s.client, &ec2.DescribeInstanceTypesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.TypeCatalog, "failed to fetch instance types", err)
		}
		for _, info := range page.InstanceTypes {
			if info.VCpuInfo == nil || info.VCpuInfo.DefaultVCpus == nil ||
				info.MemoryInfo == nil || info.MemoryInfo.SizeInMiB == nil {
				continue
			}
			offerings = append(offerings, types.ComputeOffering{
				ID:     string(info.InstanceType),
				CPU:    int(aws.ToInt32(info.VCpuInfo.DefaultVCpus)),
				RAMGiB: float64(aws.ToInt64(info.MemoryInfo.SizeInMiB)) / 1024,
			})
		}
	}

	log.Infow("fetched compute offerings", "count", len(offerings))
	return offerings, nil
}
