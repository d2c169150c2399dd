package source

import (
	"context"

	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
)

// MovementSource adapts one raw transaction table into normalized movements.
// The two source tables are independently keyed and independently written;
// everything downstream of this interface sees a single movement shape.
type MovementSource interface {
	ToMovements(ctx context.Context) ([]domain.Movement, error)
	ToMovementsForBarcode(ctx context.Context, barcode string) ([]domain.Movement, error)
}

// Collect merges movements from all sources into one unordered stream.
// Ordering is replay's concern, not the sources'.
func Collect(ctx context.Context, sources ...MovementSource) ([]domain.Movement, error) {
	var movements []domain.Movement
	for _, src := range sources {
		ms, err := src.ToMovements(ctx)
		if err != nil {
			return nil, err
		}
		movements = append(movements, ms...)
	}
	return movements, nil
}

// CollectForBarcode merges barcode-scoped movements from all sources.
func CollectForBarcode(ctx context.Context, barcode string, sources ...MovementSource) ([]domain.Movement, error) {
	var movements []domain.Movement
	for _, src := range sources {
		ms, err := src.ToMovementsForBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		movements = append(movements, ms...)
	}
	return movements, nil
}
