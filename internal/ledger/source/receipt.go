package source

import (
	"context"
	"fmt"

	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
)

// ReceiptSource adapts the inbound/putaway receipt stream. Every receipt row
// is unconditionally a stock-in movement and carries its brand verbatim.
type ReceiptSource struct {
	repo *repository.ReceiptRepository
}

// NewReceiptSource creates a new receipt source
func NewReceiptSource(repo *repository.ReceiptRepository) *ReceiptSource {
	return &ReceiptSource{repo: repo}
}

// ToMovements converts all receipt rows to movements
func (s *ReceiptSource) ToMovements(ctx context.Context) ([]domain.Movement, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return receiptMovements(rows), nil
}

// ToMovementsForBarcode converts receipt rows for one barcode to movements
func (s *ReceiptSource) ToMovementsForBarcode(ctx context.Context, barcode string) ([]domain.Movement, error) {
	rows, err := s.repo.ListByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return receiptMovements(rows), nil
}

func receiptMovements(rows []repository.ReceiptRow) []domain.Movement {
	movements := make([]domain.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, domain.Movement{
			SourceID:  fmt.Sprintf("in-%d", row.ID),
			Timestamp: row.Date,
			SKU:       row.SKU,
			Barcode:   row.Barcode,
			Brand:     row.Brand,
			Location:  row.Location,
			Expiry:    domain.ParseExpiry(row.ExpDate.String),
			Quantity:  row.Qty,
			Direction: domain.DirectionIn,
		})
	}
	return movements
}
