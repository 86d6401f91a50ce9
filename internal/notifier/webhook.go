package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/farm2market/market-api/internal/market"
)

// Notification is the payload delivered to the notification channel for one
// farmer of a settled order.
type Notification struct {
	FarmerID       string              `json:"farmer_id"`
	OrderID        string              `json:"order_id"`
	Status         string              `json:"status"`
	AmountCents    int64               `json:"amount_cents"`
	TransactionRef string              `json:"transaction_ref"`
	SettledAt      time.Time           `json:"settled_at"`
	Lines          []market.PayoutLine `json:"lines"`
}

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// WebhookSender posts notifications to an external notification service.
type WebhookSender struct {
	URL    string
	Client *http.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (w *WebhookSender) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned %d", resp.StatusCode)
	}
	return nil
}
