package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane-backend/internal/ledger/handler"
	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
	"github.com/stocklane/stocklane-backend/internal/ledger/service"
	"github.com/stocklane/stocklane-backend/pkg/config"
	"github.com/stocklane/stocklane-backend/pkg/database"
	"github.com/stocklane/stocklane-backend/pkg/httputil"
	"github.com/stocklane/stocklane-backend/pkg/logger"
	"github.com/stocklane/stocklane-backend/pkg/testutil"
)

var (
	handlerNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	receiptCols  = []string{"id", "sku", "barcode", "brand", "exp_date", "location", "qty", "date", "created_at"}
	outgoingCols = []string{"id", "sku", "barcode", "location", "qty", "expdate", "date", "status", "doc_number", "created_at"}
)

func newHandlerService(t *testing.T) (*service.LedgerService, *testutil.MockDB, *logger.Logger) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	db := database.NewFromSqlx(mockDB.DB, log)

	svc := service.NewLedgerService(
		repository.NewReceiptRepository(db),
		repository.NewOutgoingRepository(db),
		repository.NewDocumentRepository(db),
		nil,
		&config.LedgerConfig{},
		log,
		service.WithClock(func() time.Time { return handlerNow }),
	)
	return svc, mockDB, log
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestBatchHandler_ListByBarcode(t *testing.T) {
	svc, mockDB, log := newHandlerService(t)
	defer mockDB.Close()

	day0 := handlerNow.AddDate(0, 0, -10)
	mockDB.ExpectQuery("FROM stock_receipts WHERE barcode = $1").
		WithArgs("8991234").
		WillReturnRows(sqlmock.NewRows(receiptCols).
			AddRow(int64(1), "SKU-1", "8991234", "Acme", "2025-06-01", "A-01", 10, day0, day0))
	mockDB.ExpectQuery("FROM stock_outgoing WHERE barcode = $1").
		WithArgs("8991234").
		WillReturnRows(sqlmock.NewRows(outgoingCols))

	r := chi.NewRouter()
	h := handler.NewBatchHandler(svc, log)
	r.Get("/batches/{barcode}", h.ListByBarcode)

	req := httptest.NewRequest(http.MethodGet, "/batches/8991234", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	batches, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, batches, 1)
}

func TestDocumentHandler_Next(t *testing.T) {
	svc, mockDB, log := newHandlerService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO document_counters").
		WithArgs("MP-CC", 2024).
		WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(int64(43)))

	h := handler.NewDocumentHandler(svc, log)

	req := httptest.NewRequest(http.MethodPost, "/documents/next?prefix=MP-CC&year=2024", nil)
	rec := httptest.NewRecorder()
	h.Next(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "MP-CC-2024-00043", data["document_number"])
}

func TestDocumentHandler_ParamValidation(t *testing.T) {
	svc, mockDB, log := newHandlerService(t)
	defer mockDB.Close()

	h := handler.NewDocumentHandler(svc, log)

	tests := []struct {
		name   string
		target string
	}{
		{"missing prefix", "/documents/next?year=2024"},
		{"missing year", "/documents/next?prefix=MP-CC"},
		{"non-numeric year", "/documents/next?prefix=MP-CC&year=twenty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			rec := httptest.NewRecorder()
			h.Next(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
		})
	}
}

func TestIssueHandler_Issue_ValidationError(t *testing.T) {
	svc, mockDB, log := newHandlerService(t)
	defer mockDB.Close()

	h := handler.NewIssueHandler(svc, log)

	body := `{"quantity": 5, "doc_prefix": "MP-CC"}`
	req := httptest.NewRequest(http.MethodPost, "/issues", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Issue(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	mockDB.AssertExpectations(t)
}

func TestIssueHandler_Issue_InsufficientStock(t *testing.T) {
	svc, mockDB, log := newHandlerService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM stock_receipts WHERE barcode = $1").
		WithArgs("8991234").
		WillReturnRows(sqlmock.NewRows(receiptCols))
	mockDB.ExpectQuery("FROM stock_outgoing WHERE barcode = $1").
		WithArgs("8991234").
		WillReturnRows(sqlmock.NewRows(outgoingCols))

	h := handler.NewIssueHandler(svc, log)

	body := `{"barcode": "8991234", "quantity": 5, "doc_prefix": "MP-CC"}`
	req := httptest.NewRequest(http.MethodPost, "/issues", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Issue(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
}

func TestIssueHandler_Receive(t *testing.T) {
	svc, mockDB, log := newHandlerService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO stock_receipts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), handlerNow))

	h := handler.NewIssueHandler(svc, log)

	body := `{"sku": "SKU-1", "barcode": "8991234", "location": "A-01", "exp_date": "2025-06-01", "quantity": 10}`
	req := httptest.NewRequest(http.MethodPost, "/receipts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	mockDB.AssertExpectations(t)
}

func TestIssueHandler_Receive_BadBody(t *testing.T) {
	svc, mockDB, log := newHandlerService(t)
	defer mockDB.Close()

	h := handler.NewIssueHandler(svc, log)

	req := httptest.NewRequest(http.MethodPost, "/receipts", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}
