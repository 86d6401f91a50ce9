package market

import (
	"encoding/json"
	"time"
)

const (
	EventOrderSettled = "OrderSettled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// OrderSettledPayload is emitted after a settlement transaction commits.
// The notifier worker fans it out to one notification per farmer.
type OrderSettledPayload struct {
	OrderID        string         `json:"order_id"`
	BuyerID        string         `json:"buyer_id"`
	Status         PaymentStatus  `json:"status"`
	TransactionRef string         `json:"transaction_ref"`
	TotalCents     int64          `json:"total_cents"`
	SettledAt      time.Time      `json:"settled_at"`
	Payouts        []FarmerPayout `json:"payouts,omitempty"` // empty on FAILED
}

type FarmerPayout struct {
	FarmerID    string       `json:"farmer_id"`
	AmountCents int64        `json:"amount_cents"`
	Lines       []PayoutLine `json:"lines"`
}

type PayoutLine struct {
	ProductID      string `json:"product_id"`
	Qty            int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}
