package domain

import (
	"github.com/stocklane/stocklane-backend/pkg/errors"
)

// The status taxonomy is kept as data so the normalizer and the ledger can
// never disagree on classification, and adding a status is a one-line change.

var outStatuses = map[string]struct{}{
	"Issue - Order":                 {},
	"Issue - Internal Transfer":     {},
	"Issue - Internal Transfer Out": {},
	"Issue - Adjustment Manual":     {},
	"Adjustment - Loc":              {},
	"Issue - Putaway":               {},
	"Issue - Return":                {},
	"Issue - Return Putaway":        {},
	"Issue - Update Expired":        {},
}

var inStatuses = map[string]struct{}{
	"Receipt":                        {},
	"Receipt - Putaway":              {},
	"Receipt - Update Expired":       {},
	"Receipt - Outbound Return":      {},
	"Receipt - Internal Transfer":    {},
	"Receipt - Internal Transfer In": {},
	"Receipt - Adjustment Manual":    {},
}

// Classify maps a movement status string to a direction. Any status not in
// the stock-out set is treated as stock-in; this permissive default matches
// the historical behavior that new or unclassified statuses increase stock.
// A typo'd status therefore silently inflates inventory; write paths that
// cannot tolerate that should use ClassifyStrict.
func Classify(status string) Direction {
	if _, ok := outStatuses[status]; ok {
		return DirectionOut
	}
	return DirectionIn
}

// ClassifyStrict maps a status to a direction, rejecting statuses that are in
// neither allow-list.
func ClassifyStrict(status string) (Direction, error) {
	if _, ok := outStatuses[status]; ok {
		return DirectionOut, nil
	}
	if _, ok := inStatuses[status]; ok {
		return DirectionIn, nil
	}
	return "", errors.UnknownStatus(status)
}

// KnownStatus reports whether the status appears in either allow-list.
func KnownStatus(status string) bool {
	if _, ok := outStatuses[status]; ok {
		return true
	}
	_, ok := inStatuses[status]
	return ok
}
