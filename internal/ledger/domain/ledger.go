package domain

import (
	"sort"
	"time"
)

// Replay reconstructs per-batch stock by folding the full movement history in
// chronological order. It is the single source of truth for current stock;
// no running-total column exists anywhere.
//
// Replay is pure: it never mutates its input, never touches shared state, and
// produces an independent result per call. Data-quality problems (missing
// brand, unknown expiry, negative stock) are represented in the output, never
// rejected. Ties on timestamp keep the input's relative order.
func Replay(movements []Movement, now time.Time) []Batch {
	sorted := make([]Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	ledger := make(map[BatchKey]*Batch)

	for _, m := range sorted {
		// Rows without a batch identity cannot be aggregated; they still show
		// up in per-barcode history, just not here.
		if !m.HasIdentity() {
			continue
		}

		switch m.Direction {
		case DirectionIn:
			b := ensureBatch(ledger, m)
			b.Stock += m.Quantity

		case DirectionOut:
			if m.Expiry != nil {
				// The movement names an exact batch key: deduct directly.
				// If no stock exists there the batch goes negative, which is
				// surfaced as an anomaly instead of being corrected away.
				b := ensureBatch(ledger, m)
				b.Stock -= m.Quantity
			} else {
				// Ambiguous batch-level expiry: consume whichever batches
				// currently hold stock at this barcode and location, earliest
				// expiry first.
				candidates := availableAt(ledger, m.Barcode, m.Location)
				result := Allocate(candidates, m.Quantity)
				for _, a := range result.Allocations {
					ledger[a.Batch.Key()].Stock -= a.Quantity
				}
				if result.Shortfall > 0 {
					// No stock left to consume: the remainder lands on the
					// sentinel-expiry batch at this key so the inconsistency
					// stays visible in the output.
					b := ensureBatch(ledger, m)
					b.Stock -= result.Shortfall
				}
			}
		}
	}

	batches := make([]Batch, 0, len(ledger))
	for _, b := range ledger {
		b.Status = ResolveStatus(b.Location, b.Expiry, b.Stock, now)
		batches = append(batches, *b)
	}

	// Deterministic output order regardless of map iteration.
	sort.Slice(batches, func(i, j int) bool {
		ki, kj := batches[i].Key(), batches[j].Key()
		if ki.Barcode != kj.Barcode {
			return ki.Barcode < kj.Barcode
		}
		if ki.Location != kj.Location {
			return ki.Location < kj.Location
		}
		return ki.Expiry < kj.Expiry
	})

	return batches
}

// ensureBatch returns the batch for the movement's key, creating it at zero
// stock on first reference. SKU and brand are backfilled from the first
// movement that carries them; product-out rows have no brand column, so the
// brand normally arrives with the first receipt movement for the key.
func ensureBatch(ledger map[BatchKey]*Batch, m Movement) *Batch {
	key := m.Key()
	b, ok := ledger[key]
	if !ok {
		b = &Batch{
			SKU:      m.SKU,
			Barcode:  m.Barcode,
			Brand:    m.Brand,
			Location: m.Location,
			Expiry:   m.Expiry,
		}
		ledger[key] = b
		return b
	}

	if b.Brand == "" && m.Brand != "" {
		b.Brand = m.Brand
	}
	if b.SKU == "" && m.SKU != "" {
		b.SKU = m.SKU
	}
	return b
}

// availableAt collects batches with positive stock at the given barcode and
// location, as allocation candidates.
func availableAt(ledger map[BatchKey]*Batch, barcode, location string) []Batch {
	var candidates []Batch
	for _, b := range ledger {
		if b.Barcode == barcode && b.Location == location && b.Stock > 0 {
			candidates = append(candidates, *b)
		}
	}
	return candidates
}
