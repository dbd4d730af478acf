// Package estimate fans a batch of machines out across a bounded worker
// pool and collects per-machine cost records with partial-failure
// tolerance.
package estimate

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"migration-cost/core/catalog"
	"migration-cost/core/cost"
	"migration-cost/core/inventory"
	"migration-cost/core/pricing"
	"migration-cost/core/sizing"
	"migration-cost/core/types"
	"migration-cost/internal/errors"
	"migration-cost/internal/logging"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 5

// Options configures a run.
type Options struct {
	// Workers is the worker pool size; <= 0 selects DefaultWorkers.
	Workers int
}

// Batch is a finished run: completed records plus the invalid-offering
// tally. Records are in completion order; callers requiring determinism
// must call SortByMachine.
type Batch struct {
	Records []types.MachineCostRecord
	Invalid *pricing.Tally

	// Processed counts machines that produced a record; Skipped counts
	// machines dropped by per-machine failures.
	Processed int
	Skipped   int
}

// SortByMachine orders records by machine name for deterministic output.
func (b *Batch) SortByMachine() {
	sort.Slice(b.Records, func(i, j int) bool {
		return b.Records[i].Machine < b.Records[j].Machine
	})
}

// Run estimates every machine independently: resolve size, price the
// candidates under all three commitment models, aggregate with storage.
// Per-machine failures are logged and skipped; only shared setup failures
// and non-retryable price-source auth errors abort the run.
func Run(ctx context.Context, machines []types.Machine, disks []types.DiskRecord, cat *catalog.Catalog, oracle *pricing.Oracle, opts Options) (*Batch, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(machines) && len(machines) > 0 {
		workers = len(machines)
	}

	log := logging.Named("estimate")

	// Storage pricing is shared setup: every machine depends on it.
	storageRate, err := oracle.StoragePrice(ctx)
	if err != nil {
		return nil, errors.Pricing("failed to fetch storage unit price", err)
	}

	footprints := inventory.StorageFootprints(disks)
	tally := pricing.NewTally()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan types.Machine)
	results := make(chan types.MachineCostRecord)

	var (
		wg      sync.WaitGroup
		skipped int64

		fatalMu  sync.Mutex
		fatalErr error
	)

	abort := func(err error) {
		fatalMu.Lock()
		if fatalErr == nil {
			fatalErr = err
			cancel()
		}
		fatalMu.Unlock()
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for machine := range work {
				record, err := estimateMachine(runCtx, machine, cat, oracle, storageRate, footprints, tally)
				if err != nil {
					if errors.IsType(err, errors.TypeAuth) {
						log.Errorw("price source rejected credentials, aborting run",
							"machine", machine.Name, "error", err)
						abort(err)
						return
					}
					atomic.AddInt64(&skipped, 1)
					log.Warnw("skipping machine",
						"machine", machine.Name, "cpu", machine.CPU, "ram_gib", machine.RAMGiB, "error", err)
					continue
				}
				select {
				case results <- record:
				case <-runCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, machine := range machines {
			select {
			case work <- machine:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	batch := &Batch{Invalid: tally}
	for record := range results {
		batch.Records = append(batch.Records, record)
	}

	fatalMu.Lock()
	err = fatalErr
	fatalMu.Unlock()
	if err != nil {
		return nil, err
	}

	batch.Processed = len(batch.Records)
	batch.Skipped = int(atomic.LoadInt64(&skipped))
	log.Infow("estimation complete",
		"processed", batch.Processed, "skipped", batch.Skipped, "invalid_prices", tally.Total())

	return batch, nil
}

// estimateMachine runs the full pipeline for one machine inside one
// worker. Machines are independent units of work; nothing here touches
// mutable shared state except the tally and the oracle's cache.
func estimateMachine(ctx context.Context, machine types.Machine, cat *catalog.Catalog, oracle *pricing.Oracle, storageRate decimal.Decimal, footprints map[string]float64, tally *pricing.Tally) (types.MachineCostRecord, error) {
	if err := machine.Validate(); err != nil {
		return types.MachineCostRecord{}, err
	}

	req := sizing.NewRequirement(machine.CPU, machine.RAMGiB, cat)
	candidates, err := sizing.Resolve(req, cat)
	if err != nil {
		return types.MachineCostRecord{}, err
	}

	osFamily := pricing.MapOSFamily(machine.OS)

	// Models are evaluated in fixed order; the 3-year result is the
	// primary offering merged into the record.
	quotes := make(map[types.Model]*types.Quote, len(types.Models))
	for _, model := range types.Models {
		quote, err := oracle.BestPrice(ctx, candidates, osFamily, model, tally)
		if err != nil {
			return types.MachineCostRecord{}, err
		}
		quotes[model] = quote
	}

	storage := cost.StorageCost(storageRate, footprints[machine.Name])
	return cost.Aggregate(machine, quotes, storage), nil
}
