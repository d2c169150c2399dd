package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
	"github.com/stocklane/stocklane-backend/pkg/database"
	"github.com/stocklane/stocklane-backend/pkg/errors"
	"github.com/stocklane/stocklane-backend/pkg/logger"
	"github.com/stocklane/stocklane-backend/pkg/testutil"
)

func newDocumentRepo(t *testing.T) (*repository.DocumentRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	repo := repository.NewDocumentRepository(database.NewFromSqlx(mockDB.DB, log))
	return repo, mockDB
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		year   int
		seq    int64
		pad    int
		want   string
	}{
		{"first in series", "MP-CC", 2024, 1, 5, "MP-CC-2024-00001"},
		{"mid series", "MP-CC", 2024, 43, 5, "MP-CC-2024-00043"},
		{"wide series", "WH-TRF", 2024, 43, 6, "WH-TRF-2024-000043"},
		{"seq wider than pad", "MP-CC", 2024, 1234567, 5, "MP-CC-2024-1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.FormatNumber(tt.prefix, tt.year, tt.seq, tt.pad)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextNumber_ReservesSequence(t *testing.T) {
	repo, mockDB := newDocumentRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO document_counters").
		WithArgs("MP-CC", 2024).
		WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(int64(43)))

	got, err := repo.NextNumber(context.Background(), "MP-CC", 2024, 5)

	require.NoError(t, err)
	assert.Equal(t, "MP-CC-2024-00043", got)
	mockDB.AssertExpectations(t)
}

func TestNextNumber_DatabaseError(t *testing.T) {
	repo, mockDB := newDocumentRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO document_counters").
		WithArgs("MP-CC", 2024).
		WillReturnError(assert.AnError)

	_, err := repo.NextNumber(context.Background(), "MP-CC", 2024, 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDependency))
}

func TestPeekNumber_EmptySeries(t *testing.T) {
	repo, mockDB := newDocumentRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT doc_number FROM stock_outgoing").
		WithArgs("MP-CC-2024-%").
		WillReturnRows(sqlmock.NewRows([]string{"doc_number"}))

	got, err := repo.PeekNumber(context.Background(), "MP-CC", 2024, 5)

	require.NoError(t, err)
	assert.Equal(t, "MP-CC-2024-00001", got)
	mockDB.AssertExpectations(t)
}

func TestPeekNumber_IncrementsHighestExisting(t *testing.T) {
	repo, mockDB := newDocumentRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT doc_number FROM stock_outgoing").
		WithArgs("MP-CC-2024-%").
		WillReturnRows(sqlmock.NewRows([]string{"doc_number"}).AddRow("MP-CC-2024-00042"))

	got, err := repo.PeekNumber(context.Background(), "MP-CC", 2024, 5)

	require.NoError(t, err)
	assert.Equal(t, "MP-CC-2024-00043", got)
	mockDB.AssertExpectations(t)
}

func TestPeekNumber_WidePad(t *testing.T) {
	repo, mockDB := newDocumentRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT doc_number FROM stock_outgoing").
		WithArgs("WH-TRF-2024-%").
		WillReturnRows(sqlmock.NewRows([]string{"doc_number"}).AddRow("WH-TRF-2024-000007"))

	got, err := repo.PeekNumber(context.Background(), "WH-TRF", 2024, 6)

	require.NoError(t, err)
	assert.Equal(t, "WH-TRF-2024-000008", got)
}

func TestPeekNumber_GarbageSuffixRestartsSeries(t *testing.T) {
	repo, mockDB := newDocumentRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT doc_number FROM stock_outgoing").
		WithArgs("MP-CC-2024-%").
		WillReturnRows(sqlmock.NewRows([]string{"doc_number"}).AddRow("MP-CC-2024-draft"))

	got, err := repo.PeekNumber(context.Background(), "MP-CC", 2024, 5)

	require.NoError(t, err)
	assert.Equal(t, "MP-CC-2024-00001", got)
}
