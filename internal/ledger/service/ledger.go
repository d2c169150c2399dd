package service

import (
	"context"
	"sort"
	"time"

	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
	"github.com/stocklane/stocklane-backend/internal/ledger/events"
	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
	"github.com/stocklane/stocklane-backend/internal/ledger/source"
	"github.com/stocklane/stocklane-backend/pkg/config"
	"github.com/stocklane/stocklane-backend/pkg/logger"
)

// LedgerService reconstructs batch state from the two movement streams and
// drives FEFO allocation. Every read re-derives state with a full replay;
// there is no cached stock figure anywhere that could drift from the history.
type LedgerService struct {
	receipts  *repository.ReceiptRepository
	outgoing  *repository.OutgoingRepository
	documents *repository.DocumentRepository
	sources   []source.MovementSource
	publisher *events.LedgerEventPublisher
	cfg       *config.LedgerConfig
	logger    *logger.Logger
	now       func() time.Time
}

// Option configures a LedgerService
type Option func(*LedgerService)

// WithClock overrides the service's time source. Used by tests that assert
// expiry-dependent statuses.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	receipts *repository.ReceiptRepository,
	outgoing *repository.OutgoingRepository,
	documents *repository.DocumentRepository,
	publisher *events.LedgerEventPublisher,
	cfg *config.LedgerConfig,
	log *logger.Logger,
	opts ...Option,
) *LedgerService {
	s := &LedgerService{
		receipts:  receipts,
		outgoing:  outgoing,
		documents: documents,
		sources: []source.MovementSource{
			source.NewReceiptSource(receipts),
			source.NewProductOutSource(outgoing),
		},
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllBatches replays the full movement history and returns every batch,
// status-annotated. Anomalous (negative stock) batches are included.
func (s *LedgerService) GetAllBatches(ctx context.Context) ([]domain.Batch, error) {
	movements, err := source.Collect(ctx, s.sources...)
	if err != nil {
		return nil, err
	}

	batches := domain.Replay(movements, s.now())

	if n := countAnomalies(batches); n > 0 {
		s.logger.Warn().Int("anomaly_count", n).Msg("replay produced negative-stock batches")
	}

	return batches, nil
}

// GetBatchesForBarcode replays the movement history scoped to one barcode
func (s *LedgerService) GetBatchesForBarcode(ctx context.Context, barcode string) ([]domain.Batch, error) {
	movements, err := source.CollectForBarcode(ctx, barcode, s.sources...)
	if err != nil {
		return nil, err
	}
	return domain.Replay(movements, s.now()), nil
}

// GetMovementHistory returns the chronological movement stream for one
// barcode. Unlike replay, rows missing location or expiry are kept: history
// only needs the fields to exist on the row, not to form a batch identity.
func (s *LedgerService) GetMovementHistory(ctx context.Context, barcode string) ([]domain.Movement, error) {
	movements, err := source.CollectForBarcode(ctx, barcode, s.sources...)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Timestamp.Before(movements[j].Timestamp)
	})

	return movements, nil
}

// DashboardStats summarizes the ledger for reporting
type DashboardStats struct {
	TotalBatches     int                   `json:"total_batches"`
	TotalStock       int                   `json:"total_stock"`
	DistinctBarcodes int                   `json:"distinct_barcodes"`
	AnomalyCount     int                   `json:"anomaly_count"`
	StatusCounts     map[domain.Status]int `json:"status_counts"`
}

// GetDashboardStats computes ledger-wide statistics from a single replay
func (s *LedgerService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	batches, err := s.GetAllBatches(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalBatches: len(batches),
		StatusCounts: make(map[domain.Status]int),
	}

	barcodes := make(map[string]struct{})
	for _, b := range batches {
		stats.StatusCounts[b.Status]++
		barcodes[b.Barcode] = struct{}{}
		if b.Stock > 0 {
			stats.TotalStock += b.Stock
		}
		if b.Anomalous() {
			stats.AnomalyCount++
		}
	}
	stats.DistinctBarcodes = len(barcodes)

	return stats, nil
}

// NextDocumentNumber reserves the next number in a document series
func (s *LedgerService) NextDocumentNumber(ctx context.Context, prefix string, year int) (string, error) {
	return s.documents.NextNumber(ctx, prefix, year, s.cfg.PadWidth(prefix))
}

// PeekDocumentNumber previews the next number without reserving it
func (s *LedgerService) PeekDocumentNumber(ctx context.Context, prefix string, year int) (string, error) {
	return s.documents.PeekNumber(ctx, prefix, year, s.cfg.PadWidth(prefix))
}

func countAnomalies(batches []domain.Batch) int {
	n := 0
	for _, b := range batches {
		if b.Anomalous() {
			n++
		}
	}
	return n
}
