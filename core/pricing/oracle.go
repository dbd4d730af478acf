package pricing

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"migration-cost/core/types"
	"migration-cost/internal/errors"
	"migration-cost/internal/logging"
)

type cacheKey struct {
	offeringID string
	osFamily   string
	model      types.Model
}

// Oracle memoizes price lookups against a Source. Pricing is assumed
// stable for the duration of one estimate run, so entries never expire.
// Concurrent workers may race to populate the same key; the lookup is
// idempotent so the redundant call is benign.
type Oracle struct {
	source Source

	mu    sync.RWMutex
	cache map[cacheKey]decimal.Decimal

	storageOnce sync.Once
	storageRate decimal.Decimal
	storageErr  error
}

// NewOracle creates an oracle over a price source.
func NewOracle(source Source) *Oracle {
	return &Oracle{
		source: source,
		cache:  make(map[cacheKey]decimal.Decimal),
	}
}

// Price returns the unit price for (offering, OS family, model). A zero
// decimal means "unavailable" and is never an error: the caller tallies
// it and excludes the offering from cheapest selection. Errors are
// reserved for fatal transport problems (errors.TypeAuth); any other
// source failure degrades to unavailable for this call only.
func (o *Oracle) Price(ctx context.Context, offeringID, osFamily string, model types.Model) (decimal.Decimal, error) {
	key := cacheKey{offeringID: offeringID, osFamily: osFamily, model: model}

	o.mu.RLock()
	price, ok := o.cache[key]
	o.mu.RUnlock()
	if ok {
		return price, nil
	}

	price, err := o.fetch(ctx, offeringID, osFamily, model)
	if err != nil {
		if errors.IsType(err, errors.TypeAuth) {
			return decimal.Zero, err
		}
		logging.Sugar.Warnw("price lookup failed, treating as unavailable",
			"offering", offeringID, "os", osFamily, "model", model.String(), "error", err)
		price = decimal.Zero
	}

	o.mu.Lock()
	o.cache[key] = price
	o.mu.Unlock()
	return price, nil
}

func (o *Oracle) fetch(ctx context.Context, offeringID, osFamily string, model types.Model) (decimal.Decimal, error) {
	if model == types.ModelOnDemand {
		return o.source.OnDemandRate(ctx, offeringID, osFamily)
	}
	return o.source.ReservedUpfront(ctx, offeringID, osFamily, model.MinDurationSeconds())
}

// StoragePrice returns the memoized GB-month storage unit rate. A failure
// here is a setup failure: storage pricing is shared by every machine.
func (o *Oracle) StoragePrice(ctx context.Context) (decimal.Decimal, error) {
	o.storageOnce.Do(func() {
		o.storageRate, o.storageErr = o.source.StorageRate(ctx)
		if o.storageErr == nil && !o.storageRate.IsPositive() {
			o.storageErr = errors.Pricing("no storage price information found", nil)
		}
	})
	return o.storageRate, o.storageErr
}

// BestPrice evaluates every candidate offering under one model, tallies
// the unavailable ones, and returns the minimum-price survivor. A nil
// quote means every candidate was unavailable.
func (o *Oracle) BestPrice(ctx context.Context, offeringIDs []string, osFamily string, model types.Model, tally *Tally) (*types.Quote, error) {
	var best *types.Quote

	for _, id := range offeringIDs {
		price, err := o.Price(ctx, id, osFamily, model)
		if err != nil {
			return nil, err
		}
		if !price.IsPositive() {
			tally.Add(id)
			continue
		}
		if best == nil || price.LessThan(best.Price) {
			best = &types.Quote{OfferingID: id, Price: price}
		}
	}

	return best, nil
}
