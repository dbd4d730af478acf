// Package rvtools reads machine and disk inventories from an RVTools
// export workbook. Column positions are discovered by case-insensitive
// substring match against the header row, since RVTools versions vary
// their exact column titles.
package rvtools

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"migration-cost/core/inventory"
	"migration-cost/core/types"
	"migration-cost/internal/errors"
	"migration-cost/internal/logging"
)

const (
	// MachineSheet is the RVTools tab with per-VM CPU/RAM rows
	MachineSheet = "vCPU"

	// DiskSheet is the RVTools tab with per-disk capacity rows
	DiskSheet = "vDisk"
)

// Inventory is the parsed content of one workbook.
type Inventory struct {
	Machines []types.Machine
	Disks    []types.DiskRecord
}

// ReadFile opens a workbook and parses both inventory sheets.
func ReadFile(path string) (*Inventory, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.InvalidMachineRecordf("failed to open workbook %s: %v", path, err)
	}
	defer f.Close()
	return ReadWorkbook(f)
}

// ReadWorkbook parses an already-open workbook. A missing machine sheet
// or machine column is fatal; disk-sheet problems degrade to an empty
// disk inventory (no storage cost will be computed).
func ReadWorkbook(f *excelize.File) (*Inventory, error) {
	machineRows, err := f.GetRows(MachineSheet)
	if err != nil {
		return nil, errors.InvalidMachineRecordf("missing required sheet %q", MachineSheet)
	}

	machines, err := parseMachines(machineRows)
	if err != nil {
		return nil, err
	}

	log := logging.Named("rvtools")

	var disks []types.DiskRecord
	diskRows, err := f.GetRows(DiskSheet)
	if err != nil {
		log.Warnw("disk sheet not found, skipping storage records", "sheet", DiskSheet)
	} else {
		disks = parseDisks(diskRows)
	}

	log.Infow("parsed inventory", "machines", len(machines), "disks", len(disks))
	return &Inventory{Machines: machines, Disks: disks}, nil
}

// findColumn returns the index of the first column whose header contains
// one of the given titles, case-insensitive. Titles are tried in order so
// more specific titles win.
func findColumn(header []string, titles ...string) (int, error) {
	for _, title := range titles {
		needle := strings.ToLower(title)
		for i, value := range header {
			if strings.Contains(strings.ToLower(strings.TrimSpace(value)), needle) {
				return i, nil
			}
		}
	}
	return 0, errors.MissingColumn(titles...)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseInt reads an integer cell that may carry thousands separators.
func parseInt(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseMachines(rows [][]string) ([]types.Machine, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidMachineRecord("machine sheet is empty")
	}

	header := rows[0]
	cpuCol, err := findColumn(header, "CPUs")
	if err != nil {
		return nil, err
	}
	ramCol, err := findColumn(header, "Max")
	if err != nil {
		return nil, err
	}
	vmCol, err := findColumn(header, "VM")
	if err != nil {
		return nil, err
	}
	osCol, err := findColumn(header, "OS according to the configuration file")
	if err != nil {
		return nil, err
	}

	machines := make([]types.Machine, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cpu, _ := parseInt(cell(row, cpuCol))
		ramMB, _ := parseInt(cell(row, ramCol))
		machines = append(machines, types.Machine{
			Name:   cell(row, vmCol),
			CPU:    int(cpu),
			RAMGiB: inventory.RAMGiBFromMB(ramMB),
			OS:     cell(row, osCol),
		})
	}
	return machines, nil
}

func parseDisks(rows [][]string) []types.DiskRecord {
	log := logging.Named("rvtools")
	if len(rows) == 0 {
		return nil
	}

	header := rows[0]
	capCol, err := findColumn(header, "Capacity MB", "Capacity MiB", "Capacity")
	if err != nil {
		log.Warnw("skipping storage records due to missing column",
			"error", err, "available", strings.Join(header, ", "))
		return nil
	}
	vmCol, err := findColumn(header, "VM")
	if err != nil {
		log.Warnw("skipping storage records due to missing column", "error", err)
		return nil
	}

	disks := make([]types.DiskRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		capacity, ok := parseInt(cell(row, capCol))
		if !ok {
			continue
		}
		disks = append(disks, types.DiskRecord{
			Machine:    cell(row, vmCol),
			CapacityMB: capacity,
		})
	}
	return disks
}
