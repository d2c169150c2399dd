package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/stocklane/stocklane-backend/pkg/database"
	"github.com/stocklane/stocklane-backend/pkg/errors"
)

// DocumentRepository generates document numbers for movement series.
//
// Numbers are formatted "<PREFIX>-<YEAR>-<ZERO_PADDED_SEQ>". The pad width is
// part of the contract: it keeps lexicographic order equal to numeric order,
// which the legacy max-scan relies on.
type DocumentRepository struct {
	db *database.DB
}

// NewDocumentRepository creates a new document number repository
func NewDocumentRepository(db *database.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// FormatNumber renders a document number for a series
func FormatNumber(prefix string, year int, seq int64, pad int) string {
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, pad, seq)
}

// NextNumber atomically reserves and returns the next number in a series.
// The per-series counter is bumped with a single conditional upsert, so two
// concurrent callers can never observe the same sequence value.
func (r *DocumentRepository) NextNumber(ctx context.Context, prefix string, year int, pad int) (string, error) {
	query := `
		INSERT INTO document_counters (prefix, year, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET last_seq = document_counters.last_seq + 1
		RETURNING last_seq
	`

	var seq int64
	if err := r.db.QueryRowxContext(ctx, query, prefix, year).Scan(&seq); err != nil {
		return "", errors.Dependency(err, "failed to reserve document number")
	}

	return FormatNumber(prefix, year, seq, pad), nil
}

// PeekNumber derives the next number from the highest existing document
// number in the series, without reserving it. This is the legacy read-last,
// increment contract: it is not safe under concurrent callers and exists for
// previews and for series not yet migrated to the counter table.
func (r *DocumentRepository) PeekNumber(ctx context.Context, prefix string, year int, pad int) (string, error) {
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	query := `
		SELECT doc_number FROM stock_outgoing
		WHERE doc_number LIKE $1
		ORDER BY doc_number DESC
		LIMIT 1
	`

	var last string
	err := r.db.GetContext(ctx, &last, query, pattern)
	if err == sql.ErrNoRows {
		return FormatNumber(prefix, year, 1, pad), nil
	}
	if err != nil {
		return "", errors.Dependency(err, "failed to read last document number")
	}

	seq := parseSequence(last)
	return FormatNumber(prefix, year, seq+1, pad), nil
}

// parseSequence extracts the trailing numeric suffix of a document number.
// Returns 0 when no suffix exists, so the series starts at 1.
func parseSequence(docNumber string) int64 {
	idx := strings.LastIndex(docNumber, "-")
	if idx < 0 || idx == len(docNumber)-1 {
		return 0
	}
	seq, err := strconv.ParseInt(docNumber[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return seq
}
