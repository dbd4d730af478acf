// Package inventory normalizes raw inventory values into the units the
// engine works in.
package inventory

import (
	"math"

	"migration-cost/core/types"
)

// RAMGiBFromMB converts an exported memory value in MB to whole GiB,
// rounding to the nearest gigabyte the way sizing tiers are quoted.
func RAMGiBFromMB(mb int64) float64 {
	return math.Round(float64(mb) / 1000)
}

// StorageGB converts a disk capacity in MB to gigabytes.
func StorageGB(mb int64) float64 {
	return float64(mb) / 1000
}

// StorageFootprints sums disk capacities per machine into a single
// storage footprint in GB. Capacities are summed, never averaged or
// overwritten: a multi-disk machine's estimate must count every disk.
func StorageFootprints(disks []types.DiskRecord) map[string]float64 {
	totals := make(map[string]int64)
	for _, d := range disks {
		if d.Machine == "" || d.CapacityMB < 0 {
			continue
		}
		totals[d.Machine] += d.CapacityMB
	}

	footprints := make(map[string]float64, len(totals))
	for machine, mb := range totals {
		footprints[machine] = StorageGB(mb)
	}
	return footprints
}
