package domain

import (
	"strings"
	"time"
)

// Status is the human-facing sellability classification of a batch.
type Status string

const (
	StatusSellable    Status = "Sellable"
	StatusExpiring    Status = "Expiring"
	StatusExpired     Status = "Expired"
	StatusOutOfStock  Status = "Out of Stock"
	StatusQuarantine  Status = "Quarantine"
	StatusDamaged     Status = "Damaged"
	StatusMarketplace Status = "Marketplace"
	StatusSensitiveMP Status = "Sensitive MP"
)

// expiringWindowMonths is the calendar-month horizon within which a batch
// counts as Expiring.
const expiringWindowMonths = 3

// ResolveStatus derives a batch status from its location tag, expiry date and
// stock level. It is a pure function; callers pass the reference time.
//
// The order is load-bearing: location overrides always win over stock and
// expiry, so a quarantined batch with healthy stock stays Quarantine. An
// unknown expiry is never treated as sellable.
func ResolveStatus(location string, expiry *time.Time, stock int, now time.Time) Status {
	loc := strings.ToLower(location)

	switch {
	case strings.Contains(loc, "marketplace"):
		return StatusMarketplace
	case strings.Contains(loc, "sensitive"):
		return StatusSensitiveMP
	case strings.Contains(loc, "quarantine"):
		return StatusQuarantine
	case strings.Contains(loc, "damaged"):
		return StatusDamaged
	}

	if stock <= 0 {
		return StatusOutOfStock
	}

	if expiry == nil {
		return StatusQuarantine
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)

	if day.Before(today) {
		return StatusExpired
	}
	if day.Before(today.AddDate(0, expiringWindowMonths, 0)) {
		return StatusExpiring
	}
	return StatusSellable
}
