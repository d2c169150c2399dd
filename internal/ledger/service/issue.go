package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stocklane/stocklane-backend/internal/ledger/domain"
	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
	"github.com/stocklane/stocklane-backend/pkg/errors"
)

// AllocationRequest asks for a FEFO split of a quantity across the batches
// currently holding stock for a barcode, optionally scoped to one location.
type AllocationRequest struct {
	Barcode  string `json:"barcode" validate:"required"`
	Location string `json:"location,omitempty"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// IssueRequest creates a new outbound document against FEFO-allocated stock
type IssueRequest struct {
	Barcode   string `json:"barcode" validate:"required"`
	Location  string `json:"location,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Status    string `json:"status,omitempty"`
	DocPrefix string `json:"doc_prefix" validate:"required"`
}

// IssueResult describes the written outbound document
type IssueResult struct {
	DocumentNumber string                   `json:"document_number"`
	Quantity       int                      `json:"quantity"`
	Allocations    []domain.Allocation      `json:"allocations"`
	Rows           []repository.OutgoingRow `json:"rows"`
}

// ReceiptRequest creates a new receipt row
type ReceiptRequest struct {
	SKU      string `json:"sku"`
	Barcode  string `json:"barcode" validate:"required"`
	Brand    string `json:"brand,omitempty"`
	Location string `json:"location" validate:"required"`
	ExpDate  string `json:"exp_date" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// defaultIssueStatus is stamped on outbound rows when the caller does not
// supply a status.
const defaultIssueStatus = "Issue - Order"

// AllocateForIssue runs a FEFO allocation against current batch state
// without writing anything. A nonzero shortfall in the result is data; the
// caller decides whether to reject.
func (s *LedgerService) AllocateForIssue(ctx context.Context, req AllocationRequest) (*domain.AllocationResult, error) {
	if req.Barcode == "" {
		return nil, errors.Validation(map[string]string{"barcode": "must not be empty"})
	}
	if req.Quantity <= 0 {
		return nil, errors.Validation(map[string]string{"quantity": "must be greater than 0"})
	}

	batches, err := s.GetBatchesForBarcode(ctx, req.Barcode)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Stock <= 0 {
			continue
		}
		if req.Location != "" && b.Location != req.Location {
			continue
		}
		candidates = append(candidates, b)
	}

	result := domain.Allocate(candidates, req.Quantity)
	return &result, nil
}

// IssueStock allocates stock FEFO and records the issue as new product-out
// rows, one per consumed batch, under a single document number. A shortfall
// is a hard failure here: outbound documents are never written partially
// fulfilled.
func (s *LedgerService) IssueStock(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	if details := validateIssue(req); len(details) > 0 {
		return nil, errors.Validation(details)
	}

	status := req.Status
	if status == "" {
		status = defaultIssueStatus
	}
	if err := s.checkIssueStatus(status); err != nil {
		return nil, err
	}

	allocation, err := s.AllocateForIssue(ctx, AllocationRequest{
		Barcode:  req.Barcode,
		Location: req.Location,
		Quantity: req.Quantity,
	})
	if err != nil {
		return nil, err
	}
	if allocation.Shortfall > 0 {
		return nil, errors.InsufficientStock(req.Quantity, allocation.Allocated())
	}

	now := s.now()
	docNumber, err := s.NextDocumentNumber(ctx, req.DocPrefix, now.Year())
	if err != nil {
		return nil, err
	}

	result := &IssueResult{
		DocumentNumber: docNumber,
		Quantity:       req.Quantity,
		Allocations:    allocation.Allocations,
	}

	err = s.outgoing.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, a := range allocation.Allocations {
			row := repository.OutgoingRow{
				SKU:       a.Batch.SKU,
				Barcode:   a.Batch.Barcode,
				Location:  a.Batch.Location,
				Qty:       a.Quantity,
				ExpDate:   expiryString(a.Batch.Expiry),
				Date:      now,
				Status:    status,
				DocNumber: sql.NullString{String: docNumber, Valid: true},
			}
			if err := s.outgoing.InsertTx(ctx, tx, &row); err != nil {
				return err
			}
			result.Rows = append(result.Rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishStockIssued(ctx, docNumber, req.Barcode, req.Location, req.Quantity, len(result.Rows))

	s.logger.Info().
		Str("doc_number", docNumber).
		Str("barcode", req.Barcode).
		Int("quantity", req.Quantity).
		Int("batch_count", len(result.Rows)).
		Msg("stock issued")

	return result, nil
}

// ReceiveStock records a new receipt row. Receipts create ledger entries, so
// the full batch identity is required up front; a row that cannot form an
// identity is rejected, not silently skipped.
func (s *LedgerService) ReceiveStock(ctx context.Context, req ReceiptRequest) (*domain.Movement, error) {
	details := make(map[string]string)
	if req.Barcode == "" {
		details["barcode"] = "must not be empty"
	}
	if req.Location == "" {
		details["location"] = "must not be empty"
	}
	expiry := domain.ParseExpiry(req.ExpDate)
	if expiry == nil {
		details["exp_date"] = "must be a parseable date"
	}
	if req.Quantity <= 0 {
		details["quantity"] = "must be greater than 0"
	}
	if len(details) > 0 {
		return nil, errors.Validation(details)
	}

	row := repository.ReceiptRow{
		SKU:      req.SKU,
		Barcode:  req.Barcode,
		Brand:    req.Brand,
		ExpDate:  sql.NullString{String: expiry.Format(domain.DateLayout), Valid: true},
		Location: req.Location,
		Qty:      req.Quantity,
		Date:     s.now(),
	}
	if err := s.receipts.Insert(ctx, &row); err != nil {
		return nil, err
	}

	s.publisher.PublishStockReceived(ctx, req.Barcode, req.Location, req.Quantity)

	movement := domain.Movement{
		SourceID:  fmt.Sprintf("in-%d", row.ID),
		Timestamp: row.Date,
		SKU:       row.SKU,
		Barcode:   row.Barcode,
		Brand:     row.Brand,
		Location:  row.Location,
		Expiry:    expiry,
		Quantity:  row.Qty,
		Direction: domain.DirectionIn,
	}
	return &movement, nil
}

// checkIssueStatus rejects statuses that would not classify as stock-out.
// In strict mode unknown statuses fail loudly instead of defaulting to IN.
func (s *LedgerService) checkIssueStatus(status string) error {
	if s.cfg.StrictStatuses {
		direction, err := domain.ClassifyStrict(status)
		if err != nil {
			return err
		}
		if direction != domain.DirectionOut {
			return errors.BadRequest("status " + status + " is not a stock-out status")
		}
		return nil
	}

	if domain.Classify(status) != domain.DirectionOut {
		return errors.BadRequest("status " + status + " is not a stock-out status")
	}
	return nil
}

func validateIssue(req IssueRequest) map[string]string {
	details := make(map[string]string)
	if req.Barcode == "" {
		details["barcode"] = "must not be empty"
	}
	if req.Quantity <= 0 {
		details["quantity"] = "must be greater than 0"
	}
	if req.DocPrefix == "" {
		details["doc_prefix"] = "must not be empty"
	}
	return details
}

func expiryString(expiry *time.Time) sql.NullString {
	if expiry == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: expiry.Format(domain.DateLayout), Valid: true}
}
