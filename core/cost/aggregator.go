// Package cost combines priced offerings and storage footprints into
// per-machine cost records. Pure arithmetic over already-resolved inputs.
package cost

import (
	"github.com/shopspring/decimal"

	"migration-cost/core/types"
)

const (
	monthsPerYear = 12
	horizonYears  = 3
)

// StorageCost prices a storage footprint over the fixed 3-year horizon:
// monthly = rate x GB rounded to cents, three-year = monthly x 12 x 3
// rounded to cents.
func StorageCost(ratePerGBMonth decimal.Decimal, gb float64) types.StorageCost {
	monthly := ratePerGBMonth.Mul(decimal.NewFromFloat(gb)).Round(2)
	yearly := monthly.Mul(decimal.NewFromInt(monthsPerYear))
	threeYear := yearly.Mul(decimal.NewFromInt(horizonYears)).Round(2)
	return types.StorageCost{
		GB:        gb,
		Monthly:   monthly,
		ThreeYear: threeYear,
	}
}

// Aggregate builds the finished cost record for one machine. The 3-year
// reserved quote is the primary offering merged into the record; when
// every model came back unavailable the record still carries the machine
// identity and storage cost, and the total is storage only.
func Aggregate(machine types.Machine, quotes map[types.Model]*types.Quote, storage types.StorageCost) types.MachineCostRecord {
	record := types.MachineCostRecord{
		Machine: machine.Name,
		OS:      machine.OS,
		Quotes:  quotes,
		Storage: storage,
	}

	instance := decimal.Zero
	if primary := quotes[types.Model3YrReserved]; primary != nil {
		record.OfferingID = primary.OfferingID
		instance = primary.Price
	}

	record.Total = instance.Add(storage.ThreeYear).Round(2)
	return record
}
