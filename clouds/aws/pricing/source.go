// Package pricing implements the price source against the AWS Pricing
// API (on-demand and storage rates) and the EC2 reserved-instance
// offering listings (reserved upfront prices).
package pricing

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/shopspring/decimal"

	"migration-cost/internal/config"
	"migration-cost/internal/errors"
	"migration-cost/internal/logging"
)

// The Pricing API is only served from a fixed region, independent of the
// region being priced.
const pricingAPIRegion = "us-east-1"

const serviceCodeEC2 = "AmazonEC2"

// Source resolves prices for one region under the configured tenancy and
// capacity status. It implements core/pricing.Source.
type Source struct {
	pricingClient *pricing.Client
	ec2Client     *ec2.Client
	cfg           config.AWSConfig
}

// New builds a source from application configuration.
func New(ctx context.Context, cfg config.AWSConfig) (*Source, error) {
	pricingCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(pricingAPIRegion))
	if err != nil {
		return nil, errors.Config("failed to load AWS configuration", err)
	}
	regionCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.Config("failed to load AWS configuration", err)
	}
	return &Source{
		pricingClient: pricing.NewFromConfig(pricingCfg),
		ec2Client:     ec2.NewFromConfig(regionCfg),
		cfg:           cfg,
	}, nil
}

func termFilter(field, value string) pricingtypes.Filter {
	return pricingtypes.Filter{
		Type:  pricingtypes.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}

// OnDemandRate returns the current hourly rate, or zero when the Pricing
// API has no product matching the filters.
func (s *Source) OnDemandRate(ctx context.Context, offeringID, osFamily string) (decimal.Decimal, error) {
	out, err := s.pricingClient.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCodeEC2),
		Filters: []pricingtypes.Filter{
			termFilter("instanceType", offeringID),
			termFilter("operatingSystem", osFamily),
			termFilter("location", s.cfg.PricingLocation),
			termFilter("tenancy", s.cfg.Tenancy),
			termFilter("capacitystatus", s.cfg.CapacityStatus),
		},
	})
	if err != nil {
		return decimal.Zero, classify(err)
	}

	if len(out.PriceList) == 0 {
		logging.Named("pricing").Debugw("no on-demand pricing found",
			"offering", offeringID, "os", osFamily)
		return decimal.Zero, nil
	}

	price, err := parseOnDemandUSD([]byte(out.PriceList[0]))
	if err != nil {
		return decimal.Zero, errors.Pricing("failed to parse price list entry", err)
	}
	return price, nil
}

// ReservedUpfront returns the fixed all-upfront price of the first
// reserved offering meeting the minimum duration, or zero when none is
// listed.
func (s *Source) ReservedUpfront(ctx context.Context, offeringID, osFamily string, minDurationSeconds int64) (decimal.Decimal, error) {
	out, err := s.ec2Client.DescribeReservedInstancesOfferings(ctx, &ec2.DescribeReservedInstancesOfferingsInput{
		InstanceType:       ec2types.InstanceType(offeringID),
		ProductDescription: ec2types.RIProductDescription(osFamily),
		OfferingType:       ec2types.OfferingTypeValuesAllUpfront,
		MinDuration:        aws.Int64(minDurationSeconds),
		MaxResults:         aws.Int32(100),
	})
	if err != nil {
		return decimal.Zero, classify(err)
	}

	if len(out.ReservedInstancesOfferings) == 0 {
		logging.Named("pricing").Debugw("no reserved offerings found",
			"offering", offeringID, "os", osFamily, "min_duration", minDurationSeconds)
		return decimal.Zero, nil
	}

	fixed := aws.ToFloat32(out.ReservedInstancesOfferings[0].FixedPrice)
	return decimal.NewFromFloat32(fixed), nil
}

// StorageRate returns the general-purpose volume rate per GB-month for
// the configured location.
func (s *Source) StorageRate(ctx context.Context) (decimal.Decimal, error) {
	out, err := s.pricingClient.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCodeEC2),
		Filters: []pricingtypes.Filter{
			termFilter("productFamily", "Storage"),
			termFilter("volumeType", "General Purpose"),
			termFilter("location", s.cfg.PricingLocation),
		},
	})
	if err != nil {
		return decimal.Zero, classify(err)
	}

	for _, item := range out.PriceList {
		price, err := parseOnDemandUSD([]byte(item))
		if err != nil {
			continue
		}
		if price.IsPositive() {
			return price, nil
		}
	}
	return decimal.Zero, errors.Pricing("no storage price information found for the specified criteria", nil)
}

// priceListEntry is the slice of the Pricing API payload we read: the
// first price dimension of the first on-demand term.
type priceListEntry struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

func parseOnDemandUSD(raw []byte) (decimal.Decimal, error) {
	var entry priceListEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return decimal.Zero, err
	}
	for _, term := range entry.Terms.OnDemand {
		for _, dimension := range term.PriceDimensions {
			usd, ok := dimension.PricePerUnit["USD"]
			if !ok {
				continue
			}
			return decimal.NewFromString(usd)
		}
	}
	return decimal.Zero, nil
}
