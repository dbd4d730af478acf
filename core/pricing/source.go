// Package pricing resolves unit prices for compute offerings under the
// three commitment models, memoizing lookups for the lifetime of a run.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Source is the external price source. Implementations return a zero
// decimal when the source has no data for the key ("unavailable") and an
// error only for transport problems. Auth/config errors must be typed
// errors.TypeAuth so callers can abort instead of degrading.
type Source interface {
	// OnDemandRate returns the current hourly rate for an offering.
	OnDemandRate(ctx context.Context, offeringID, osFamily string) (decimal.Decimal, error)

	// ReservedUpfront returns the full-upfront fixed price of the first
	// reservation offer meeting the minimum duration, in seconds.
	ReservedUpfront(ctx context.Context, offeringID, osFamily string, minDurationSeconds int64) (decimal.Decimal, error)

	// StorageRate returns the general-purpose storage unit price per
	// GB-month.
	StorageRate(ctx context.Context) (decimal.Decimal, error)
}
