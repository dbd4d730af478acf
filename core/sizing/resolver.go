// Package sizing maps a machine's compute requirement onto catalog
// offerings under a round-up, never-down policy.
package sizing

import (
	"migration-cost/core/catalog"
	"migration-cost/core/types"
	"migration-cost/internal/errors"
)

// NewRequirement builds a size requirement from raw inventory values,
// clamped so it is never below the smallest catalog offering. Catalog
// tiers below the minimum would make the ceiling search unsatisfiable.
func NewRequirement(cpu int, ramGiB float64, cat *catalog.Catalog) types.SizeRequirement {
	if cpu < cat.MinCPU() {
		cpu = cat.MinCPU()
	}
	if ramGiB < cat.MinRAM() {
		ramGiB = cat.MinRAM()
	}
	return types.SizeRequirement{CPU: cpu, RAMGiB: ramGiB}
}

// Resolve returns the identifiers of the offerings that exactly satisfy
// the monotonically-relaxed requirement: the CPU ceiling is held fixed
// while the RAM tier is advanced upward until the (cpu, ram) pair matches
// at least one offering. Compute and memory tiers are not independent in
// real catalogs, so ceiling both dimensions at once can miss every
// offering; relaxing memory upward never under-provisions CPU.
//
// All identifiers at the matching tier are returned; pricing, not sizing,
// breaks the tie.
func Resolve(req types.SizeRequirement, cat *catalog.Catalog) ([]string, error) {
	cpu, ok := cat.CeilCPU(req.CPU)
	if !ok {
		return nil, errors.SizeNotFound(req.CPU, req.RAMGiB)
	}

	ram, ok := cat.CeilRAM(req.RAMGiB)
	if !ok {
		return nil, errors.SizeNotFound(req.CPU, req.RAMGiB)
	}

	for {
		if ids := cat.Lookup(cpu, ram); len(ids) > 0 {
			return ids, nil
		}
		ram, ok = cat.NextRAM(ram)
		if !ok {
			return nil, errors.SizeNotFound(req.CPU, req.RAMGiB)
		}
	}
}
