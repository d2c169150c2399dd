package domain

import (
	"sort"
)

// Allocation is one batch's share of a fulfilled request.
type Allocation struct {
	Batch    Batch `json:"batch"`
	Quantity int   `json:"quantity"`
}

// AllocationResult is the outcome of a FEFO allocation. A nonzero Shortfall
// is data, not an error; the caller decides whether it is fatal.
type AllocationResult struct {
	Allocations []Allocation `json:"allocations"`
	Shortfall   int          `json:"shortfall"`
}

// Allocated returns the total quantity consumed across all batches.
func (r AllocationResult) Allocated() int {
	total := 0
	for _, a := range r.Allocations {
		total += a.Quantity
	}
	return total
}

// Allocate splits a requested quantity across candidate batches in
// First-Expired-First-Out order. Candidates must be pre-filtered to positive
// stock for the caller's scope; the allocator only orders and consumes.
//
// Batches without a known expiry sort last (lowest priority), with further
// ties broken by location then barcode so the result never depends on input
// order. The input slice is not mutated.
func Allocate(candidates []Batch, requested int) AllocationResult {
	sorted := make([]Batch, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := sorted[i].Expiry, sorted[j].Expiry
		switch {
		case ei == nil && ej == nil:
			// fall through to location tie-break
		case ei == nil:
			return false
		case ej == nil:
			return true
		case !ei.Equal(*ej):
			return ei.Before(*ej)
		}
		if sorted[i].Location != sorted[j].Location {
			return sorted[i].Location < sorted[j].Location
		}
		return sorted[i].Barcode < sorted[j].Barcode
	})

	result := AllocationResult{}
	remaining := requested

	for _, batch := range sorted {
		if remaining == 0 {
			break
		}
		if batch.Stock <= 0 {
			continue
		}

		qty := batch.Stock
		if remaining < qty {
			qty = remaining
		}

		result.Allocations = append(result.Allocations, Allocation{Batch: batch, Quantity: qty})
		remaining -= qty
	}

	result.Shortfall = remaining
	return result
}
