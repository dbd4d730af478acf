package estimate

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"migration-cost/core/catalog"
	"migration-cost/core/pricing"
	"migration-cost/core/types"
	"migration-cost/internal/errors"
)

// poolSource prices every offering from a fixed table, concurrently safe.
type poolSource struct {
	mu       sync.Mutex
	onDemand map[string]float64
	reserved map[string]float64
	storage  float64
	authErr  bool
	calls    int
}

func (s *poolSource) OnDemandRate(_ context.Context, offeringID, _ string) (decimal.Decimal, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.authErr {
		return decimal.Zero, errors.Auth("credentials rejected", nil)
	}
	return decimal.NewFromFloat(s.onDemand[offeringID]), nil
}

func (s *poolSource) ReservedUpfront(_ context.Context, offeringID, _ string, _ int64) (decimal.Decimal, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.authErr {
		return decimal.Zero, errors.Auth("credentials rejected", nil)
	}
	return decimal.NewFromFloat(s.reserved[offeringID]), nil
}

func (s *poolSource) StorageRate(_ context.Context) (decimal.Decimal, error) {
	return decimal.NewFromFloat(s.storage), nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]types.ComputeOffering{
		{ID: "small", CPU: 2, RAMGiB: 4},
		{ID: "medium", CPU: 4, RAMGiB: 8},
		{ID: "large", CPU: 4, RAMGiB: 16},
	})
	if err != nil {
		t.Fatalf("catalog construction failed: %v", err)
	}
	return cat
}

func pricedSource() *poolSource {
	return &poolSource{
		onDemand: map[string]float64{"small": 0.05, "medium": 0.10, "large": 0.20},
		reserved: map[string]float64{"small": 500, "medium": 1000, "large": 2000},
		storage:  0.08,
	}
}

func TestRunEstimatesBatch(t *testing.T) {
	machines := []types.Machine{
		{Name: "web-01", CPU: 2, RAMGiB: 4, OS: "CentOS 7"},
		{Name: "app-01", CPU: 3, RAMGiB: 5, OS: "Red Hat Enterprise Linux 8"},
		{Name: "db-01", CPU: 4, RAMGiB: 12, OS: "Windows Server 2019"},
	}
	disks := []types.DiskRecord{
		{Machine: "web-01", CapacityMB: 50000},
		{Machine: "web-01", CapacityMB: 50000},
		{Machine: "db-01", CapacityMB: 200000},
	}

	batch, err := Run(context.Background(), machines, disks, testCatalog(t), pricing.NewOracle(pricedSource()), Options{Workers: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if batch.Processed != 3 || batch.Skipped != 0 {
		t.Fatalf("processed=%d skipped=%d, want 3/0", batch.Processed, batch.Skipped)
	}

	batch.SortByMachine()
	byName := make(map[string]types.MachineCostRecord)
	for _, r := range batch.Records {
		byName[r.Machine] = r
	}

	// cpu=3 ceils to 4, ram=5 ceils to 8: "medium".
	if got := byName["app-01"].OfferingID; got != "medium" {
		t.Errorf("app-01 offering = %s, want medium", got)
	}
	// ram=12 ceils to 16: "large", not "medium".
	if got := byName["db-01"].OfferingID; got != "large" {
		t.Errorf("db-01 offering = %s, want large", got)
	}

	// web-01: two 50 GB disks sum to 100 GB -> 8.00/month -> 288 over 3
	// years; instance 500 upfront.
	web := byName["web-01"]
	if web.Storage.GB != 100 {
		t.Errorf("web-01 storage GB = %v, want 100", web.Storage.GB)
	}
	if want := decimal.NewFromInt(788); !web.Total.Equal(want) {
		t.Errorf("web-01 total = %s, want %s", web.Total, want)
	}

	// app-01 has no disk records: total is instance cost only.
	app := byName["app-01"]
	if app.Storage.GB != 0 || !app.Storage.ThreeYear.IsZero() {
		t.Errorf("app-01 storage = %+v, want zero", app.Storage)
	}
	if want := decimal.NewFromInt(1000); !app.Total.Equal(want) {
		t.Errorf("app-01 total = %s, want %s", app.Total, want)
	}
}

func TestRunSkipsInvalidMachines(t *testing.T) {
	machines := []types.Machine{
		{Name: "good", CPU: 2, RAMGiB: 4, OS: "CentOS"},
		{Name: "no-cpu", CPU: 0, RAMGiB: 4, OS: "CentOS"},
		{Name: "", CPU: 2, RAMGiB: 4, OS: "CentOS"},
	}

	batch, err := Run(context.Background(), machines, nil, testCatalog(t), pricing.NewOracle(pricedSource()), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Processed != 1 || batch.Skipped != 2 {
		t.Errorf("processed=%d skipped=%d, want 1/2", batch.Processed, batch.Skipped)
	}
	if len(batch.Records) != 1 || batch.Records[0].Machine != "good" {
		t.Errorf("records = %v, want only good", batch.Records)
	}
}

func TestRunSkipsUnsatisfiableMachines(t *testing.T) {
	machines := []types.Machine{
		{Name: "ok", CPU: 2, RAMGiB: 4, OS: "CentOS"},
		{Name: "huge", CPU: 128, RAMGiB: 4096, OS: "CentOS"},
	}

	batch, err := Run(context.Background(), machines, nil, testCatalog(t), pricing.NewOracle(pricedSource()), Options{Workers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Processed != 1 || batch.Skipped != 1 {
		t.Errorf("processed=%d skipped=%d, want 1/1", batch.Processed, batch.Skipped)
	}
}

func TestRunTalliesUnpricedOfferings(t *testing.T) {
	src := pricedSource()
	delete(src.reserved, "medium") // medium has no reserved offers

	machines := []types.Machine{
		{Name: "app-01", CPU: 4, RAMGiB: 8, OS: "CentOS"},
	}

	batch, err := Run(context.Background(), machines, nil, testCatalog(t), pricing.NewOracle(src), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unpriced under both reserved models: tallied twice, but the record
	// still exists with the on-demand quote populated.
	if got := batch.Invalid.Count("medium"); got != 2 {
		t.Errorf("invalid tally for medium = %d, want 2", got)
	}
	record := batch.Records[0]
	if record.OfferingID != "" {
		t.Errorf("3-year offering = %s, want unavailable", record.OfferingID)
	}
	if record.Quotes[types.ModelOnDemand] == nil {
		t.Error("on-demand quote should be available")
	}
}

func TestRunAbortsOnAuthError(t *testing.T) {
	src := pricedSource()
	src.authErr = true

	machines := []types.Machine{
		{Name: "web-01", CPU: 2, RAMGiB: 4, OS: "CentOS"},
	}

	_, err := Run(context.Background(), machines, nil, testCatalog(t), pricing.NewOracle(src), Options{})
	if err == nil {
		t.Fatal("expected auth error to abort the run")
	}
	if !errors.IsType(err, errors.TypeAuth) {
		t.Errorf("expected auth error type, got %v", err)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	batch, err := Run(context.Background(), nil, nil, testCatalog(t), pricing.NewOracle(pricedSource()), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Processed != 0 || len(batch.Records) != 0 {
		t.Errorf("expected empty batch, got %+v", batch)
	}
}

func TestRunManyMachinesAcrossWorkers(t *testing.T) {
	var machines []types.Machine
	for i := 0; i < 40; i++ {
		machines = append(machines, types.Machine{
			Name: "vm-" + string(rune('a'+i%26)) + string(rune('0'+i/26)), CPU: 2, RAMGiB: 4, OS: "CentOS",
		})
	}

	batch, err := Run(context.Background(), machines, nil, testCatalog(t), pricing.NewOracle(pricedSource()), Options{Workers: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Processed != 40 {
		t.Errorf("processed = %d, want 40", batch.Processed)
	}
}
