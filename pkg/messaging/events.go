package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventStockIssued     = "ledger.stock.issued"
	EventStockReceived   = "ledger.stock.received"
	EventAnomalyDetected = "ledger.anomaly.detected"
	EventBatchExpiring   = "ledger.batch.expiring"
)

// Exchange names
const (
	ExchangeLedgerEvents = "ledger.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// StockIssuedEvent is published after an outbound document is written
type StockIssuedEvent struct {
	DocumentNumber string `json:"document_number"`
	Barcode        string `json:"barcode"`
	Location       string `json:"location"`
	Quantity       int    `json:"quantity"`
	BatchCount     int    `json:"batch_count"`
}

// StockReceivedEvent is published after a receipt row is written
type StockReceivedEvent struct {
	Barcode  string `json:"barcode"`
	Location string `json:"location"`
	Quantity int    `json:"quantity"`
}

// AnomalyDetectedEvent is published when replay surfaces a negative-stock batch
type AnomalyDetectedEvent struct {
	Barcode    string `json:"barcode"`
	Location   string `json:"location"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	Stock      int    `json:"stock"`
}

// BatchExpiringEvent is published when a batch enters the expiring window
type BatchExpiringEvent struct {
	Barcode    string `json:"barcode"`
	Location   string `json:"location"`
	ExpiryDate string `json:"expiry_date"`
	Stock      int    `json:"stock"`
}
