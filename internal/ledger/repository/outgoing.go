package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stocklane/stocklane-backend/pkg/database"
	"github.com/stocklane/stocklane-backend/pkg/errors"
)

// OutgoingRow is a raw row from the product-out stream. The table carries
// both issues and some receipts; the status string decides the direction.
// Note the legacy field naming: the expiry column is expdate here but
// exp_date on stock_receipts.
type OutgoingRow struct {
	ID        int64          `db:"id" json:"id"`
	SKU       string         `db:"sku" json:"sku"`
	Barcode   string         `db:"barcode" json:"barcode"`
	Location  string         `db:"location" json:"location"`
	Qty       int            `db:"qty" json:"qty"`
	ExpDate   sql.NullString `db:"expdate" json:"expdate"`
	Date      time.Time      `db:"date" json:"date"`
	Status    string         `db:"status" json:"status"`
	DocNumber sql.NullString `db:"doc_number" json:"doc_number"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// OutgoingRepository reads and writes the product-out stream
type OutgoingRepository struct {
	db *database.DB
}

// NewOutgoingRepository creates a new product-out repository
func NewOutgoingRepository(db *database.DB) *OutgoingRepository {
	return &OutgoingRepository{db: db}
}

// ListAll returns every product-out row
func (r *OutgoingRepository) ListAll(ctx context.Context) ([]OutgoingRow, error) {
	var rows []OutgoingRow
	query := `SELECT id, sku, barcode, location, qty, expdate, date, status, doc_number, created_at FROM stock_outgoing`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Dependency(err, "failed to load product-out rows")
	}
	return rows, nil
}

// ListByBarcode returns product-out rows for a single barcode
func (r *OutgoingRepository) ListByBarcode(ctx context.Context, barcode string) ([]OutgoingRow, error) {
	var rows []OutgoingRow
	query := `SELECT id, sku, barcode, location, qty, expdate, date, status, doc_number, created_at FROM stock_outgoing WHERE barcode = $1`
	if err := r.db.SelectContext(ctx, &rows, query, barcode); err != nil {
		return nil, errors.Dependency(err, "failed to load product-out rows")
	}
	return rows, nil
}

// Insert writes a new product-out row
func (r *OutgoingRepository) Insert(ctx context.Context, row *OutgoingRow) error {
	return r.insert(ctx, r.db.DB, row)
}

// InsertTx writes a new product-out row inside an existing transaction
func (r *OutgoingRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, row *OutgoingRow) error {
	return r.insert(ctx, tx, row)
}

// WithTransaction runs fn inside a database transaction
func (r *OutgoingRepository) WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return r.db.Transaction(ctx, fn)
}

type rowQueryer interface {
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

func (r *OutgoingRepository) insert(ctx context.Context, q rowQueryer, row *OutgoingRow) error {
	query := `
		INSERT INTO stock_outgoing (sku, barcode, location, qty, expdate, date, status, doc_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := q.QueryRowxContext(ctx, query,
		row.SKU, row.Barcode, row.Location, row.Qty, row.ExpDate, row.Date, row.Status, row.DocNumber,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Dependency(err, "failed to insert product-out row")
	}
	return nil
}
