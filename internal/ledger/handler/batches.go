package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stocklane/stocklane-backend/internal/ledger/service"
	"github.com/stocklane/stocklane-backend/pkg/httputil"
	"github.com/stocklane/stocklane-backend/pkg/logger"
)

// BatchHandler handles batch read endpoints
type BatchHandler struct {
	service *service.LedgerService
	logger  *logger.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(svc *service.LedgerService, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		service: svc,
		logger:  log,
	}
}

// List returns every batch from a full ledger replay
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.service.GetAllBatches(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batches)
}

// ListByBarcode returns batches for one barcode
func (h *BatchHandler) ListByBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	batches, err := h.service.GetBatchesForBarcode(r.Context(), barcode)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batches)
}

// Movements returns the chronological movement history for one barcode
func (h *BatchHandler) Movements(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	movements, err := h.service.GetMovementHistory(r.Context(), barcode)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, movements)
}
