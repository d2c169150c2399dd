package handler

import (
	"net/http"

	"github.com/stocklane/stocklane-backend/internal/ledger/service"
	"github.com/stocklane/stocklane-backend/pkg/httputil"
	"github.com/stocklane/stocklane-backend/pkg/logger"
)

// IssueHandler handles allocation and stock-movement write endpoints
type IssueHandler struct {
	service *service.LedgerService
	logger  *logger.Logger
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(svc *service.LedgerService, log *logger.Logger) *IssueHandler {
	return &IssueHandler{
		service: svc,
		logger:  log,
	}
}

// Allocate runs a dry-run FEFO allocation against current stock
func (h *IssueHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req service.AllocationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.AllocateForIssue(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// Issue allocates stock FEFO and writes an outbound document
func (h *IssueHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req service.IssueRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.IssueStock(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, result)
}

// Receive writes a new receipt row
func (h *IssueHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req service.ReceiptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	movement, err := h.service.ReceiveStock(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, movement)
}
