// Package catalog holds the immutable compute-offering catalog.
// The catalog is built once per run from an inventory source and read
// concurrently by all workers; it is never mutated after construction.
package catalog

import (
	"sort"

	"migration-cost/core/types"
	"migration-cost/internal/errors"
)

type specKey struct {
	cpu int
	ram float64
}

// Catalog is a sorted, de-duplicated collection of compute offerings.
type Catalog struct {
	offerings []types.ComputeOffering

	// distinct ascending value ladders
	cpuValues []int
	ramValues []float64

	// exact (cpu, ram) spec to offering IDs, IDs sorted
	bySpec map[specKey][]string
}

// New builds a catalog from an offering inventory. It fails on an empty
// inventory and on duplicate offering identifiers.
func New(offerings []types.ComputeOffering) (*Catalog, error) {
	if len(offerings) == 0 {
		return nil, errors.EmptyCatalog()
	}

	seen := make(map[string]bool, len(offerings))
	cpuSet := make(map[int]bool)
	ramSet := make(map[float64]bool)
	bySpec := make(map[specKey][]string)

	for _, o := range offerings {
		if o.ID == "" {
			return nil, errors.Catalogf("offering with cpu=%d ram=%.1f has no identifier", o.CPU, o.RAMGiB)
		}
		if seen[o.ID] {
			return nil, errors.Catalogf("duplicate offering identifier: %s", o.ID)
		}
		if o.CPU <= 0 || o.RAMGiB <= 0 {
			return nil, errors.Catalogf("offering %s has non-positive specs (cpu=%d ram=%.2f)", o.ID, o.CPU, o.RAMGiB)
		}
		seen[o.ID] = true
		cpuSet[o.CPU] = true
		ramSet[o.RAMGiB] = true

		key := specKey{cpu: o.CPU, ram: o.RAMGiB}
		bySpec[key] = append(bySpec[key], o.ID)
	}

	cpuValues := make([]int, 0, len(cpuSet))
	for v := range cpuSet {
		cpuValues = append(cpuValues, v)
	}
	sort.Ints(cpuValues)

	ramValues := make([]float64, 0, len(ramSet))
	for v := range ramSet {
		ramValues = append(ramValues, v)
	}
	sort.Float64s(ramValues)

	for _, ids := range bySpec {
		sort.Strings(ids)
	}

	sorted := make([]types.ComputeOffering, len(offerings))
	copy(sorted, offerings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CPU != sorted[j].CPU {
			return sorted[i].CPU < sorted[j].CPU
		}
		if sorted[i].RAMGiB != sorted[j].RAMGiB {
			return sorted[i].RAMGiB < sorted[j].RAMGiB
		}
		return sorted[i].ID < sorted[j].ID
	})

	return &Catalog{
		offerings: sorted,
		cpuValues: cpuValues,
		ramValues: ramValues,
		bySpec:    bySpec,
	}, nil
}

// Len returns the number of offerings.
func (c *Catalog) Len() int {
	return len(c.offerings)
}

// Offerings returns the offerings sorted by (cpu, ram, id). The returned
// slice must not be mutated.
func (c *Catalog) Offerings() []types.ComputeOffering {
	return c.offerings
}

// MinCPU returns the smallest vCPU count present.
func (c *Catalog) MinCPU() int {
	return c.cpuValues[0]
}

// MinRAM returns the smallest memory size present, in GiB.
func (c *Catalog) MinRAM() float64 {
	return c.ramValues[0]
}

// CPUValues returns the sorted distinct vCPU counts.
func (c *Catalog) CPUValues() []int {
	return c.cpuValues
}

// RAMValues returns the sorted distinct memory sizes.
func (c *Catalog) RAMValues() []float64 {
	return c.ramValues
}

// CeilCPU returns the smallest distinct catalog CPU value >= req.
func (c *Catalog) CeilCPU(req int) (int, bool) {
	i := sort.SearchInts(c.cpuValues, req)
	if i == len(c.cpuValues) {
		return 0, false
	}
	return c.cpuValues[i], true
}

// CeilRAM returns the smallest distinct catalog RAM value >= req.
func (c *Catalog) CeilRAM(req float64) (float64, bool) {
	i := sort.SearchFloat64s(c.ramValues, req)
	if i == len(c.ramValues) {
		return 0, false
	}
	return c.ramValues[i], true
}

// NextRAM returns the next distinct RAM value strictly above current.
func (c *Catalog) NextRAM(current float64) (float64, bool) {
	i := sort.SearchFloat64s(c.ramValues, current)
	if i < len(c.ramValues) && c.ramValues[i] == current {
		i++
	}
	if i >= len(c.ramValues) {
		return 0, false
	}
	return c.ramValues[i], true
}

// Lookup returns the identifiers of offerings whose specs exactly equal
// (cpu, ram), sorted. An empty result means no offering at that tier.
func (c *Catalog) Lookup(cpu int, ram float64) []string {
	return c.bySpec[specKey{cpu: cpu, ram: ram}]
}
