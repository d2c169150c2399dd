package events

import (
	"context"

	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
	"github.com/stocklane/stocklane-backend/pkg/logger"
	"github.com/stocklane/stocklane-backend/pkg/messaging"
)

// LedgerEventPublisher publishes ledger-related events. All publishing is
// best-effort: failures are logged, never propagated to the caller.
type LedgerEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewLedgerEventPublisher creates a new ledger event publisher
func NewLedgerEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*LedgerEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeLedgerEvents, "ledger-service", log)
	if err != nil {
		return nil, err
	}

	return &LedgerEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishStockIssued publishes a stock issued event
func (p *LedgerEventPublisher) PublishStockIssued(ctx context.Context, docNumber, barcode, location string, qty, batchCount int) {
	if p == nil {
		return
	}
	data := messaging.StockIssuedEvent{
		DocumentNumber: docNumber,
		Barcode:        barcode,
		Location:       location,
		Quantity:       qty,
		BatchCount:     batchCount,
	}
	if err := p.publisher.Publish(ctx, messaging.EventStockIssued, data); err != nil {
		p.logger.Error().Err(err).Str("doc_number", docNumber).Msg("failed to publish stock issued event")
	}
}

// PublishStockReceived publishes a stock received event
func (p *LedgerEventPublisher) PublishStockReceived(ctx context.Context, barcode, location string, qty int) {
	if p == nil {
		return
	}
	data := messaging.StockReceivedEvent{
		Barcode:  barcode,
		Location: location,
		Quantity: qty,
	}
	if err := p.publisher.Publish(ctx, messaging.EventStockReceived, data); err != nil {
		p.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to publish stock received event")
	}
}

// PublishAnomalyDetected publishes an anomaly detected event for a
// negative-stock batch
func (p *LedgerEventPublisher) PublishAnomalyDetected(ctx context.Context, batch domain.Batch) {
	if p == nil {
		return
	}
	data := messaging.AnomalyDetectedEvent{
		Barcode:  batch.Barcode,
		Location: batch.Location,
		Stock:    batch.Stock,
	}
	if batch.Expiry != nil {
		data.ExpiryDate = batch.Expiry.Format(domain.DateLayout)
	}
	if err := p.publisher.Publish(ctx, messaging.EventAnomalyDetected, data); err != nil {
		p.logger.Error().Err(err).Str("barcode", batch.Barcode).Msg("failed to publish anomaly event")
	}
}

// PublishBatchExpiring publishes a batch expiring event
func (p *LedgerEventPublisher) PublishBatchExpiring(ctx context.Context, batch domain.Batch) {
	if p == nil {
		return
	}
	data := messaging.BatchExpiringEvent{
		Barcode:  batch.Barcode,
		Location: batch.Location,
		Stock:    batch.Stock,
	}
	if batch.Expiry != nil {
		data.ExpiryDate = batch.Expiry.Format(domain.DateLayout)
	}
	if err := p.publisher.Publish(ctx, messaging.EventBatchExpiring, data); err != nil {
		p.logger.Error().Err(err).Str("barcode", batch.Barcode).Msg("failed to publish batch expiring event")
	}
}
