package service

import (
	"context"
	"time"

	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
	"github.com/stocklane/stocklane-backend/pkg/logger"
)

// AnomalyScanner periodically replays the ledger and publishes events for
// batches in the negative-stock anomaly state or entering the expiring
// window. It only reads and publishes; anomalies are fixed by operators, not
// auto-corrected.
type AnomalyScanner struct {
	ledger   *LedgerService
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewAnomalyScanner creates a new anomaly scanner
func NewAnomalyScanner(ledger *LedgerService, interval time.Duration, log *logger.Logger) *AnomalyScanner {
	return &AnomalyScanner{
		ledger:   ledger,
		interval: interval,
		logger:   log,
	}
}

// Start starts the scanner in a background goroutine
func (s *AnomalyScanner) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("anomaly scanner started")

		// Run an initial scan immediately
		s.runScan(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("anomaly scanner stopped")
				return
			case <-ticker.C:
				s.runScan(ctx)
			}
		}
	}()
}

// Stop stops the scanner goroutine
func (s *AnomalyScanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *AnomalyScanner) runScan(ctx context.Context) {
	start := time.Now()

	batches, err := s.ledger.GetAllBatches(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("anomaly scan failed to replay ledger")
		return
	}

	anomalies, expiring := 0, 0
	for _, b := range batches {
		if b.Anomalous() {
			anomalies++
			s.logger.Warn().
				Str("barcode", b.Barcode).
				Str("location", b.Location).
				Int("stock", b.Stock).
				Msg("negative-stock batch detected")
			s.ledger.publisher.PublishAnomalyDetected(ctx, b)
		}
		if b.Status == domain.StatusExpiring {
			expiring++
			s.ledger.publisher.PublishBatchExpiring(ctx, b)
		}
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Int("batch_count", len(batches)).
		Int("anomaly_count", anomalies).
		Int("expiring_count", expiring).
		Msg("anomaly scan completed")
}
