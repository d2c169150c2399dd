package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stocklane/stocklane-backend/pkg/database"
	"github.com/stocklane/stocklane-backend/pkg/errors"
)

// ReceiptRow is a raw row from the inbound/putaway receipt stream. ExpDate is
// kept as text because legacy rows carry free-form values; parsing happens in
// the movement source.
type ReceiptRow struct {
	ID        int64          `db:"id" json:"id"`
	SKU       string         `db:"sku" json:"sku"`
	Barcode   string         `db:"barcode" json:"barcode"`
	Brand     string         `db:"brand" json:"brand"`
	ExpDate   sql.NullString `db:"exp_date" json:"exp_date"`
	Location  string         `db:"location" json:"location"`
	Qty       int            `db:"qty" json:"qty"`
	Date      time.Time      `db:"date" json:"date"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// ReceiptRepository reads and writes the receipt stream
type ReceiptRepository struct {
	db *database.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *database.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// ListAll returns every receipt row
func (r *ReceiptRepository) ListAll(ctx context.Context) ([]ReceiptRow, error) {
	var rows []ReceiptRow
	query := `SELECT id, sku, barcode, brand, exp_date, location, qty, date, created_at FROM stock_receipts`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Dependency(err, "failed to load receipt rows")
	}
	return rows, nil
}

// ListByBarcode returns receipt rows for a single barcode
func (r *ReceiptRepository) ListByBarcode(ctx context.Context, barcode string) ([]ReceiptRow, error) {
	var rows []ReceiptRow
	query := `SELECT id, sku, barcode, brand, exp_date, location, qty, date, created_at FROM stock_receipts WHERE barcode = $1`
	if err := r.db.SelectContext(ctx, &rows, query, barcode); err != nil {
		return nil, errors.Dependency(err, "failed to load receipt rows")
	}
	return rows, nil
}

// Insert writes a new receipt row
func (r *ReceiptRepository) Insert(ctx context.Context, row *ReceiptRow) error {
	query := `
		INSERT INTO stock_receipts (sku, barcode, brand, exp_date, location, qty, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		row.SKU, row.Barcode, row.Brand, row.ExpDate, row.Location, row.Qty, row.Date,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Dependency(err, "failed to insert receipt row")
	}
	return nil
}
