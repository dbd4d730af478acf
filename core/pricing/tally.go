package pricing

import (
	"sort"
	"sync"
)

// Tally counts offerings for which no usable price could be obtained.
// It is safe for concurrent use by the orchestrator's workers.
type Tally struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add records one invalid pricing result for an offering.
func (t *Tally) Add(offeringID string) {
	t.mu.Lock()
	t.counts[offeringID]++
	t.mu.Unlock()
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Count returns the count for one offering.
func (t *Tally) Count(offeringID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[offeringID]
}

// Entry is one tally line.
type Entry struct {
	OfferingID string
	Count      int
}

// MostCommon returns entries sorted by descending count, ties by ID.
func (t *Tally) MostCommon() []Entry {
	t.mu.Lock()
	entries := make([]Entry, 0, len(t.counts))
	for id, n := range t.counts {
		entries = append(entries, Entry{OfferingID: id, Count: n})
	}
	t.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].OfferingID < entries[j].OfferingID
	})
	return entries
}
