package domain_test

import (
	"testing"
	"time"

	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
)

var statusNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResolveStatus_LocationOverrides(t *testing.T) {
	farFuture := datePtr(2026, 6, 1)

	tests := []struct {
		name     string
		location string
		expiry   *time.Time
		stock    int
		want     domain.Status
	}{
		{"marketplace beats everything", "Marketplace-B2", farFuture, 50, domain.StatusMarketplace},
		{"sensitive marketplace", "Sensitive-MP-A1", farFuture, 50, domain.StatusSensitiveMP},
		{"quarantine with healthy stock stays quarantine", "Quarantine-A1", farFuture, 100, domain.StatusQuarantine},
		{"damaged zone", "Damaged-Returns", farFuture, 10, domain.StatusDamaged},
		{"case insensitive match", "QUARANTINE-Z9", farFuture, 5, domain.StatusQuarantine},
		{"quarantine wins over expired", "Quarantine-A1", datePtr(2020, 1, 1), 5, domain.StatusQuarantine},
		{"marketplace wins over zero stock", "marketplace-A", farFuture, 0, domain.StatusMarketplace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ResolveStatus(tt.location, tt.expiry, tt.stock, statusNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStatus_StockAndExpiry(t *testing.T) {
	tests := []struct {
		name   string
		expiry *time.Time
		stock  int
		want   domain.Status
	}{
		{"zero stock", datePtr(2026, 6, 1), 0, domain.StatusOutOfStock},
		{"negative stock", datePtr(2026, 6, 1), -3, domain.StatusOutOfStock},
		{"unknown expiry is never sellable", nil, 10, domain.StatusQuarantine},
		{"expired yesterday", datePtr(2024, 1, 14), 10, domain.StatusExpired},
		{"expires today is not expired", datePtr(2024, 1, 15), 10, domain.StatusExpiring},
		{"well in the future", datePtr(2025, 6, 1), 10, domain.StatusSellable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ResolveStatus("A-01-01", tt.expiry, tt.stock, statusNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStatus_ExpiringBoundary(t *testing.T) {
	// Window is 3 calendar months: from 2024-01-15 the cutoff is 2024-04-15.
	in89Days := statusNow.AddDate(0, 0, 89)
	in100Days := statusNow.AddDate(0, 0, 100)

	assert.Equal(t, domain.StatusExpiring,
		domain.ResolveStatus("A-01-01", &in89Days, 10, statusNow))
	assert.Equal(t, domain.StatusSellable,
		domain.ResolveStatus("A-01-01", &in100Days, 10, statusNow))

	// Exactly on the cutoff counts as sellable; strictly inside the window
	// counts as expiring.
	cutoff := datePtr(2024, 4, 15)
	dayBefore := datePtr(2024, 4, 14)
	assert.Equal(t, domain.StatusSellable,
		domain.ResolveStatus("A-01-01", cutoff, 10, statusNow))
	assert.Equal(t, domain.StatusExpiring,
		domain.ResolveStatus("A-01-01", dayBefore, 10, statusNow))
}
