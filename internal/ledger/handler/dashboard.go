package handler

import (
	"net/http"

	"github.com/stocklane/stocklane-backend/internal/ledger/service"
	"github.com/stocklane/stocklane-backend/pkg/httputil"
	"github.com/stocklane/stocklane-backend/pkg/logger"
)

// DashboardHandler handles reporting endpoints
type DashboardHandler struct {
	service *service.LedgerService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.LedgerService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		logger:  log,
	}
}

// GetStats returns ledger-wide statistics
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}
