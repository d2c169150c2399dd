package handler

import (
	"net/http"
	"strconv"

	"github.com/stocklane/stocklane-backend/internal/ledger/service"
	"github.com/stocklane/stocklane-backend/pkg/errors"
	"github.com/stocklane/stocklane-backend/pkg/httputil"
	"github.com/stocklane/stocklane-backend/pkg/logger"
)

// DocumentHandler handles document number endpoints
type DocumentHandler struct {
	service *service.LedgerService
	logger  *logger.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(svc *service.LedgerService, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: svc,
		logger:  log,
	}
}

// Next reserves and returns the next number in a document series
func (h *DocumentHandler) Next(w http.ResponseWriter, r *http.Request) {
	prefix, year, err := documentParams(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	number, err := h.service.NextDocumentNumber(r.Context(), prefix, year)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"document_number": number})
}

// Peek previews the next number in a series without reserving it
func (h *DocumentHandler) Peek(w http.ResponseWriter, r *http.Request) {
	prefix, year, err := documentParams(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	number, err := h.service.PeekDocumentNumber(r.Context(), prefix, year)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"document_number": number})
}

func documentParams(r *http.Request) (string, int, error) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		return "", 0, errors.BadRequest("prefix query parameter is required")
	}

	yearParam := r.URL.Query().Get("year")
	if yearParam == "" {
		return "", 0, errors.BadRequest("year query parameter is required")
	}
	year, err := strconv.Atoi(yearParam)
	if err != nil {
		return "", 0, errors.BadRequest("year must be an integer")
	}

	return prefix, year, nil
}
