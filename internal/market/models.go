package market

import "time"

// Money is stored in cents end to end; floats never touch amounts.

type Product struct {
	ID          string    `json:"id"`
	FarmerID    string    `json:"farmer_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	ID             string        `json:"id"`
	BuyerID        string        `json:"buyer_id"`
	TotalCents     int64         `json:"total_cents"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	TransactionRef string        `json:"transaction_ref,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
}

type OrderItem struct {
	ID             int64  `json:"id"`
	OrderID        string `json:"order_id"`
	ProductID      string `json:"product_id"`
	FarmerID       string `json:"farmer_id"`
	Qty            int    `json:"quantity"`
	PriceCents     int64  `json:"price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type PendingTransaction struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	TransactionRef string    `json:"transaction_ref"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Verified       bool      `json:"verified"`
}

// CartEntry is what the buyer submits at checkout.
type CartEntry struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"quantity"`
}

// PlacedOrder is the result of a successful placement.
type PlacedOrder struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// SettlementResult reports what a settlement call did. Applied is false
// when the call was an idempotent retry of an already-settled order.
type SettlementResult struct {
	Order   Order       `json:"order"`
	Items   []OrderItem `json:"items"`
	Applied bool        `json:"-"`
}
