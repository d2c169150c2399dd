package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
	"github.com/stocklane/stocklane-backend/pkg/database"
	"github.com/stocklane/stocklane-backend/pkg/logger"
	"github.com/stocklane/stocklane-backend/pkg/testutil"
)

var outgoingColumns = []string{"id", "sku", "barcode", "location", "qty", "expdate", "date", "status", "doc_number", "created_at"}

func newOutgoingRepo(t *testing.T) (*repository.OutgoingRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	repo := repository.NewOutgoingRepository(database.NewFromSqlx(mockDB.DB, log))
	return repo, mockDB
}

func TestOutgoingRepository_ListAll(t *testing.T) {
	repo, mockDB := newOutgoingRepo(t)
	defer mockDB.Close()

	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	mockDB.ExpectQuery("FROM stock_outgoing").
		WillReturnRows(sqlmock.NewRows(outgoingColumns).
			AddRow(int64(1), "SKU-1", "8991234", "A-01", 3, "2025-06-01", now, "Issue - Order", "MP-CC-2024-00001", now).
			AddRow(int64(2), "SKU-1", "8991234", "A-01", 2, nil, now, "Receipt - Outbound Return", nil, now))

	rows, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Issue - Order", rows[0].Status)
	assert.Equal(t, "MP-CC-2024-00001", rows[0].DocNumber.String)
	assert.False(t, rows[1].ExpDate.Valid)
	assert.False(t, rows[1].DocNumber.Valid)
	mockDB.AssertExpectations(t)
}

func TestOutgoingRepository_ListByBarcode(t *testing.T) {
	repo, mockDB := newOutgoingRepo(t)
	defer mockDB.Close()

	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	mockDB.ExpectQuery("FROM stock_outgoing WHERE barcode = $1").
		WithArgs("8991234").
		WillReturnRows(sqlmock.NewRows(outgoingColumns).
			AddRow(int64(1), "SKU-1", "8991234", "A-01", 3, "2025-06-01", now, "Issue - Order", nil, now))

	rows, err := repo.ListByBarcode(context.Background(), "8991234")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Qty)
	mockDB.AssertExpectations(t)
}

func TestOutgoingRepository_Insert(t *testing.T) {
	repo, mockDB := newOutgoingRepo(t)
	defer mockDB.Close()

	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	row := &repository.OutgoingRow{
		SKU:       "SKU-1",
		Barcode:   "8991234",
		Location:  "A-01",
		Qty:       3,
		ExpDate:   sql.NullString{String: "2025-06-01", Valid: true},
		Date:      created,
		Status:    "Issue - Order",
		DocNumber: sql.NullString{String: "MP-CC-2024-00001", Valid: true},
	}

	mockDB.ExpectQuery("INSERT INTO stock_outgoing").
		WithArgs(row.SKU, row.Barcode, row.Location, row.Qty, row.ExpDate, row.Date, row.Status, row.DocNumber).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

	err := repo.Insert(context.Background(), row)

	require.NoError(t, err)
	assert.Equal(t, int64(11), row.ID)
	mockDB.AssertExpectations(t)
}

func TestOutgoingRepository_WithTransaction(t *testing.T) {
	repo, mockDB := newOutgoingRepo(t)
	defer mockDB.Close()

	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	row := &repository.OutgoingRow{
		SKU:      "SKU-1",
		Barcode:  "8991234",
		Location: "A-01",
		Qty:      3,
		Date:     created,
		Status:   "Issue - Order",
	}

	mockDB.Mock.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO stock_outgoing").
		WithArgs(row.SKU, row.Barcode, row.Location, row.Qty, row.ExpDate, row.Date, row.Status, row.DocNumber).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), created))
	mockDB.Mock.ExpectCommit()

	err := repo.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return repo.InsertTx(context.Background(), tx, row)
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), row.ID)
	mockDB.AssertExpectations(t)
}

func TestOutgoingRepository_WithTransaction_RollsBackOnError(t *testing.T) {
	repo, mockDB := newOutgoingRepo(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO stock_outgoing").WillReturnError(assert.AnError)
	mockDB.Mock.ExpectRollback()

	err := repo.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return repo.InsertTx(context.Background(), tx, &repository.OutgoingRow{})
	})

	require.Error(t, err)
	mockDB.AssertExpectations(t)
}
