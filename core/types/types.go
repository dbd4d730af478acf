// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions and
// construction-time validation.
package types

import (
	"github.com/shopspring/decimal"

	"migration-cost/internal/errors"
)

// Model represents a pricing commitment model
type Model string

const (
	ModelOnDemand    Model = "onDemand"
	Model1YrReserved Model = "1-year Reserved"
	Model3YrReserved Model = "3-year Reserved"
)

// Models lists all commitment models in evaluation order. The 3-year
// reserved model must be evaluated last because its quote is the primary
// offering merged into the machine record.
var Models = []Model{ModelOnDemand, Model1YrReserved, Model3YrReserved}

// String returns the string representation
func (m Model) String() string {
	return string(m)
}

// MinDurationSeconds returns the minimum reservation duration for a
// reserved model, or 0 for on-demand.
func (m Model) MinDurationSeconds() int64 {
	switch m {
	case Model1YrReserved:
		return 31536000
	case Model3YrReserved:
		return 94608000
	default:
		return 0
	}
}

// ComputeOffering is a named compute configuration available for
// provisioning: a fixed vCPU count and memory size.
type ComputeOffering struct {
	// ID is the offering identifier (e.g., "m5.xlarge")
	ID string `json:"id"`

	// CPU is the vCPU count
	CPU int `json:"cpu"`

	// RAMGiB is the memory size in GiB
	RAMGiB float64 `json:"ram_gib"`
}

// SizeRequirement is a machine's compute footprint, already clamped so it
// is never below the smallest catalog offering.
type SizeRequirement struct {
	CPU    int     `json:"cpu"`
	RAMGiB float64 `json:"ram_gib"`
}

// Machine is one inventory row: a virtual machine to be migrated.
type Machine struct {
	// Name identifies the machine in the inventory
	Name string `json:"name"`

	// CPU is the configured vCPU count
	CPU int `json:"cpu"`

	// RAMGiB is the configured memory in GiB
	RAMGiB float64 `json:"ram_gib"`

	// OS is the free-text operating system description
	OS string `json:"os"`
}

// Validate checks the fields a sizing pass depends on.
func (m Machine) Validate() error {
	if m.Name == "" {
		return errors.InvalidMachineRecord("machine record has no name")
	}
	if m.CPU <= 0 {
		return errors.InvalidMachineRecordf("machine %s has no CPU count", m.Name)
	}
	if m.RAMGiB <= 0 {
		return errors.InvalidMachineRecordf("machine %s has no RAM size", m.Name)
	}
	return nil
}

// DiskRecord is one disk inventory row. Capacity is in MB as exported;
// multiple records may share a machine name.
type DiskRecord struct {
	Machine    string `json:"machine"`
	CapacityMB int64  `json:"capacity_mb"`
}

// Quote is a priced offering under one commitment model. A nil *Quote is
// the "unavailable" sentinel.
type Quote struct {
	OfferingID string          `json:"offering_id"`
	Price      decimal.Decimal `json:"price"`
}

// StorageCost is the storage portion of a machine's estimate, over the
// fixed 3-year horizon.
type StorageCost struct {
	// GB is the machine's summed disk footprint in gigabytes
	GB float64 `json:"gb"`

	// Monthly is rate x GB, rounded to cents
	Monthly decimal.Decimal `json:"monthly"`

	// ThreeYear is Monthly x 12 x 3, rounded to cents
	ThreeYear decimal.Decimal `json:"three_year"`
}

// MachineCostRecord is the finished estimate for one machine. Constructed
// once per run by the aggregator and immutable thereafter.
type MachineCostRecord struct {
	// Machine is the machine name
	Machine string `json:"machine"`

	// OS is the raw OS description carried through for reporting
	OS string `json:"os,omitempty"`

	// OfferingID is the selected offering under the 3-year model,
	// empty when no offering could be priced
	OfferingID string `json:"offering_id,omitempty"`

	// Quotes holds the best quote per commitment model; a missing or
	// nil entry means no price was available under that model
	Quotes map[Model]*Quote `json:"quotes"`

	// Storage is the storage cost breakdown
	Storage StorageCost `json:"storage"`

	// Total is instance(3yr) + storage(3yr), rounded to cents
	Total decimal.Decimal `json:"total"`
}

// InstanceCost3Yr returns the 3-year reserved quote price, or zero when
// unavailable.
func (r MachineCostRecord) InstanceCost3Yr() decimal.Decimal {
	if q := r.Quotes[Model3YrReserved]; q != nil {
		return q.Price
	}
	return decimal.Zero
}
