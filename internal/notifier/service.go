package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/market"
	"github.com/farm2market/market-api/internal/metrics"
	"github.com/farm2market/market-api/internal/redisx"
)

// Service consumes settlement events and fans them out to one notification
// per fulfilling farmer. Delivery failures are logged and counted, never
// bubbled up: a dead notification channel must not poison the topic.
type Service struct {
	Sender      Sender
	Redis       *redis.Client
	Log         *zap.Logger
	Metrics     *metrics.Metrics
	ServiceName string
}

// HandleOrderSettled is the consumer handler for market.TopicOrderSettled.
func (s *Service) HandleOrderSettled(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventOrderSettled {
		return nil // ignore
	}

	// Dedup on event_id: redelivery after a consumer crash must not spam farmers.
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}

	var p market.OrderSettledPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return err
	}

	for _, payout := range p.Payouts {
		n := Notification{
			FarmerID:       payout.FarmerID,
			OrderID:        p.OrderID,
			Status:         string(p.Status),
			AmountCents:    payout.AmountCents,
			TransactionRef: p.TransactionRef,
			SettledAt:      p.SettledAt,
			Lines:          payout.Lines,
		}
		if err := s.Sender.Send(ctx, n); err != nil {
			s.Metrics.NotificationsFailedTotal.Inc()
			s.Log.Error("notify farmer failed",
				zap.String("order_id", p.OrderID),
				zap.String("farmer_id", payout.FarmerID),
				zap.Error(err))
			continue
		}
		s.Metrics.NotificationsSentTotal.Inc()
	}

	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}
