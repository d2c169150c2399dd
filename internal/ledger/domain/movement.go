package domain

import (
	"time"
)

// DateLayout is the calendar-day granularity used for batch identity.
const DateLayout = "2006-01-02"

// Direction indicates whether a movement adds or removes stock.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Movement is a single normalized stock-change event. Movements are derived
// from the two source tables and never persisted in this shape.
type Movement struct {
	// SourceID is the originating row ID tagged with its source table
	// ("in-<id>" for receipts, "out-<id>" for product-out rows), so IDs stay
	// globally unique across the two tables.
	SourceID  string     `json:"source_id"`
	Timestamp time.Time  `json:"timestamp"`
	SKU       string     `json:"sku"`
	Barcode   string     `json:"barcode"`
	Brand     string     `json:"brand,omitempty"`
	Location  string     `json:"location"`
	// Expiry is nil when the source row carries no parseable expiry date.
	Expiry    *time.Time `json:"expiry_date,omitempty"`
	Quantity  int        `json:"quantity"`
	Direction Direction  `json:"direction"`
	Status    string     `json:"status,omitempty"`
}

// Key returns the batch identity this movement folds into.
func (m Movement) Key() BatchKey {
	return NewBatchKey(m.Barcode, m.Location, m.Expiry)
}

// HasIdentity reports whether the movement carries the fields required for
// batch-keyed aggregation. Movements without identity are skipped during
// replay but still appear in per-barcode history.
func (m Movement) HasIdentity() bool {
	return m.Barcode != "" && m.Location != ""
}

// BatchKey identifies a batch: one barcode at one location with one expiry
// date at calendar-day granularity. An unknown expiry maps to the empty
// string, a sentinel identity distinct from any real date.
type BatchKey struct {
	Barcode  string
	Location string
	Expiry   string
}

// NewBatchKey builds a key, normalizing the expiry to calendar-day granularity.
func NewBatchKey(barcode, location string, expiry *time.Time) BatchKey {
	k := BatchKey{Barcode: barcode, Location: location}
	if expiry != nil {
		k.Expiry = expiry.Format(DateLayout)
	}
	return k
}

// ExpiryTime returns the key's expiry as a time, or nil for the sentinel.
func (k BatchKey) ExpiryTime() *time.Time {
	if k.Expiry == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, k.Expiry)
	if err != nil {
		return nil
	}
	return &t
}

// Batch is the derived aggregate for one batch key. Batches exist only as
// replay output; there is no batch table.
type Batch struct {
	SKU      string     `json:"sku"`
	Barcode  string     `json:"barcode"`
	Brand    string     `json:"brand,omitempty"`
	Location string     `json:"location"`
	Expiry   *time.Time `json:"expiry_date,omitempty"`
	// Stock is signed: a negative value is a first-class anomaly state, kept
	// visible for operators rather than rejected.
	Stock  int    `json:"stock"`
	Status Status `json:"status"`
}

// Key returns the batch's identity.
func (b Batch) Key() BatchKey {
	return NewBatchKey(b.Barcode, b.Location, b.Expiry)
}

// Anomalous reports whether the batch is in the negative-stock anomaly state.
func (b Batch) Anomalous() bool {
	return b.Stock < 0
}

// ParseExpiry parses a raw expiry string from a source row. Returns nil for
// empty or unparseable values; those batches fold into the sentinel identity.
func ParseExpiry(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}
