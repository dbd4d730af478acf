package pricing

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"migration-cost/core/types"
	"migration-cost/internal/errors"
)

// fakeSource serves canned prices and counts calls per key.
type fakeSource struct {
	mu       sync.Mutex
	onDemand map[string]float64 // offeringID -> hourly rate
	reserved map[string]float64 // offeringID -> upfront price
	storage  float64
	err      error
	calls    map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		onDemand: make(map[string]float64),
		reserved: make(map[string]float64),
		storage:  0.08,
		calls:    make(map[string]int),
	}
}

func (f *fakeSource) record(key string) {
	f.mu.Lock()
	f.calls[key]++
	f.mu.Unlock()
}

func (f *fakeSource) OnDemandRate(_ context.Context, offeringID, osFamily string) (decimal.Decimal, error) {
	f.record("od/" + offeringID + "/" + osFamily)
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return decimal.NewFromFloat(f.onDemand[offeringID]), nil
}

func (f *fakeSource) ReservedUpfront(_ context.Context, offeringID, osFamily string, _ int64) (decimal.Decimal, error) {
	f.record("ri/" + offeringID + "/" + osFamily)
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return decimal.NewFromFloat(f.reserved[offeringID]), nil
}

func (f *fakeSource) StorageRate(_ context.Context) (decimal.Decimal, error) {
	f.record("storage")
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return decimal.NewFromFloat(f.storage), nil
}

func TestPriceCachesPerKey(t *testing.T) {
	src := newFakeSource()
	src.onDemand["m5.large"] = 0.096
	oracle := NewOracle(src)
	ctx := context.Background()

	first, err := oracle.Price(ctx, "m5.large", "Linux/UNIX", types.ModelOnDemand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := oracle.Price(ctx, "m5.large", "Linux/UNIX", types.ModelOnDemand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("cached price differs: %s vs %s", first, second)
	}
	if got := src.calls["od/m5.large/Linux/UNIX"]; got != 1 {
		t.Errorf("source invoked %d times, want 1", got)
	}

	// A different model is a different key.
	if _, err := oracle.Price(ctx, "m5.large", "Linux/UNIX", types.Model1YrReserved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := src.calls["ri/m5.large/Linux/UNIX"]; got != 1 {
		t.Errorf("reserved lookup invoked %d times, want 1", got)
	}
}

func TestPriceUnavailableIsNotAnError(t *testing.T) {
	src := newFakeSource() // no prices configured
	oracle := NewOracle(src)

	price, err := oracle.Price(context.Background(), "x1e.32xlarge", "Windows", types.ModelOnDemand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !price.IsZero() {
		t.Errorf("expected unavailable sentinel, got %s", price)
	}
}

func TestPriceTransportErrorDegradesToUnavailable(t *testing.T) {
	src := newFakeSource()
	src.err = errors.Pricing("connection reset", nil)
	oracle := NewOracle(src)

	price, err := oracle.Price(context.Background(), "m5.large", "Linux/UNIX", types.ModelOnDemand)
	if err != nil {
		t.Fatalf("transport error should not propagate, got %v", err)
	}
	if !price.IsZero() {
		t.Errorf("expected unavailable sentinel, got %s", price)
	}
}

func TestPriceAuthErrorPropagates(t *testing.T) {
	src := newFakeSource()
	src.err = errors.Auth("credentials rejected", nil)
	oracle := NewOracle(src)

	_, err := oracle.Price(context.Background(), "m5.large", "Linux/UNIX", types.ModelOnDemand)
	if err == nil {
		t.Fatal("expected auth error to propagate")
	}
	if !errors.IsType(err, errors.TypeAuth) {
		t.Errorf("expected auth error type, got %v", err)
	}
}

func TestBestPriceSelectsCheapest(t *testing.T) {
	src := newFakeSource()
	src.onDemand["m5.xlarge"] = 0.192
	src.onDemand["m5d.xlarge"] = 0.226
	src.onDemand["m6i.xlarge"] = 0.172
	oracle := NewOracle(src)
	tally := NewTally()

	quote, err := oracle.BestPrice(context.Background(),
		[]string{"m5.xlarge", "m5d.xlarge", "m6i.xlarge"}, "Linux/UNIX", types.ModelOnDemand, tally)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote")
	}
	if quote.OfferingID != "m6i.xlarge" {
		t.Errorf("selected %s, want m6i.xlarge", quote.OfferingID)
	}
	if tally.Total() != 0 {
		t.Errorf("tally = %d, want 0", tally.Total())
	}
}

func TestBestPriceTalliesUnavailable(t *testing.T) {
	src := newFakeSource()
	src.onDemand["priced"] = 0.5
	oracle := NewOracle(src)
	tally := NewTally()

	quote, err := oracle.BestPrice(context.Background(),
		[]string{"priced", "unpriced-a", "unpriced-b"}, "Linux/UNIX", types.ModelOnDemand, tally)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote == nil || quote.OfferingID != "priced" {
		t.Fatalf("quote = %+v, want priced", quote)
	}
	if tally.Total() != 2 {
		t.Errorf("tally total = %d, want 2", tally.Total())
	}
	if tally.Count("unpriced-a") != 1 || tally.Count("unpriced-b") != 1 {
		t.Error("each unavailable offering should be tallied once")
	}
}

func TestBestPriceAllUnavailable(t *testing.T) {
	oracle := NewOracle(newFakeSource())
	tally := NewTally()

	quote, err := oracle.BestPrice(context.Background(),
		[]string{"a", "b"}, "Linux/UNIX", types.Model3YrReserved, tally)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote != nil {
		t.Errorf("expected nil quote, got %+v", quote)
	}
	if tally.Total() != 2 {
		t.Errorf("tally total = %d, want 2", tally.Total())
	}
}

func TestStoragePriceMemoized(t *testing.T) {
	src := newFakeSource()
	oracle := NewOracle(src)
	ctx := context.Background()

	first, err := oracle.StoragePrice(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := oracle.StoragePrice(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("storage rate differs across calls: %s vs %s", first, second)
	}
	if src.calls["storage"] != 1 {
		t.Errorf("storage source invoked %d times, want 1", src.calls["storage"])
	}
}

func TestStoragePriceZeroRateIsFatal(t *testing.T) {
	src := newFakeSource()
	src.storage = 0
	oracle := NewOracle(src)

	if _, err := oracle.StoragePrice(context.Background()); err == nil {
		t.Fatal("expected error for missing storage price")
	}
}

func TestMapOSFamily(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"CentOS 7 (64-bit)", "Linux/UNIX"},
		{"Red Hat Enterprise Linux 8 (64-bit)", "Red Hat Enterprise Linux"},
		{"Microsoft Windows Server 2019 (64-bit)", "Windows"},
		{"SUSE Linux Enterprise 15 (64-bit)", "SUSE Linux"},
		{"Ubuntu Linux (64-bit)", "Linux/UNIX"},
		{"", "Linux/UNIX"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := MapOSFamily(tt.raw); got != tt.want {
				t.Errorf("MapOSFamily(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTallyMostCommon(t *testing.T) {
	tally := NewTally()
	for i := 0; i < 3; i++ {
		tally.Add("frequent")
	}
	tally.Add("rare")

	entries := tally.MostCommon()
	if len(entries) != 2 {
		t.Fatalf("entries = %v, want 2", entries)
	}
	if entries[0].OfferingID != "frequent" || entries[0].Count != 3 {
		t.Errorf("first entry = %+v, want frequent x3", entries[0])
	}
}
