package source

import (
	"context"
	"fmt"

	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
)

// ProductOutSource adapts the product-out stream. The table carries both
// issues and some receipts; the status taxonomy decides each row's direction.
// The table has no brand column, so brand starts empty and is backfilled
// during replay from the first receipt movement at the same batch key.
type ProductOutSource struct {
	repo *repository.OutgoingRepository
}

// NewProductOutSource creates a new product-out source
func NewProductOutSource(repo *repository.OutgoingRepository) *ProductOutSource {
	return &ProductOutSource{repo: repo}
}

// ToMovements converts all product-out rows to movements
func (s *ProductOutSource) ToMovements(ctx context.Context) ([]domain.Movement, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return outgoingMovements(rows), nil
}

// ToMovementsForBarcode converts product-out rows for one barcode to movements
func (s *ProductOutSource) ToMovementsForBarcode(ctx context.Context, barcode string) ([]domain.Movement, error) {
	rows, err := s.repo.ListByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return outgoingMovements(rows), nil
}

func outgoingMovements(rows []repository.OutgoingRow) []domain.Movement {
	movements := make([]domain.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, domain.Movement{
			SourceID:  fmt.Sprintf("out-%d", row.ID),
			Timestamp: row.Date,
			SKU:       row.SKU,
			Barcode:   row.Barcode,
			Location:  row.Location,
			Expiry:    domain.ParseExpiry(row.ExpDate.String),
			Quantity:  row.Qty,
			Direction: domain.Classify(row.Status),
			Status:    row.Status,
		})
	}
	return movements
}
