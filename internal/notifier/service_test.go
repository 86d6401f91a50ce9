package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/market"
	"github.com/farm2market/market-api/internal/metrics"
)

var testMetrics = metrics.New()

type recordingSender struct {
	sent []Notification
	err  error
}

func (r *recordingSender) Send(ctx context.Context, n Notification) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, n)
	return nil
}

func newService(t *testing.T, sender Sender) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	return &Service{
		Sender:      sender,
		Redis:       redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Log:         zap.NewNop(),
		Metrics:     testMetrics,
		ServiceName: "notifier-test",
	}
}

func settledMessage(t *testing.T, eventID string, payouts []market.FarmerPayout) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(market.OrderSettledPayload{
		OrderID:        "o1",
		BuyerID:        "b1",
		Status:         market.StatusPaid,
		TransactionRef: "tx-1",
		TotalCents:     10000,
		SettledAt:      time.Now().UTC(),
		Payouts:        payouts,
	})
	require.NoError(t, err)
	env, err := json.Marshal(market.Envelope{
		EventID:       eventID,
		EventType:     market.EventOrderSettled,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "test",
		CorrelationID: "o1",
		Payload:       payload,
	})
	require.NoError(t, err)
	return kafkago.Message{Key: market.PartitionKey("o1"), Value: env}
}

func TestHandleOrderSettled_NotifiesEachFarmer(t *testing.T) {
	sender := &recordingSender{}
	svc := newService(t, sender)

	msg := settledMessage(t, "ev-1", []market.FarmerPayout{
		{FarmerID: "f1", AmountCents: 5700, Lines: []market.PayoutLine{{ProductID: "p1", Qty: 1, LineTotalCents: 6000}}},
		{FarmerID: "f2", AmountCents: 3800, Lines: []market.PayoutLine{{ProductID: "p2", Qty: 2, LineTotalCents: 4000}}},
	})
	require.NoError(t, svc.HandleOrderSettled(context.Background(), msg))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "f1", sender.sent[0].FarmerID)
	assert.Equal(t, int64(5700), sender.sent[0].AmountCents)
	assert.Equal(t, "o1", sender.sent[0].OrderID)
	assert.Equal(t, "f2", sender.sent[1].FarmerID)
}

func TestHandleOrderSettled_DedupsRedelivery(t *testing.T) {
	sender := &recordingSender{}
	svc := newService(t, sender)

	msg := settledMessage(t, "ev-1", []market.FarmerPayout{{FarmerID: "f1", AmountCents: 9500}})
	require.NoError(t, svc.HandleOrderSettled(context.Background(), msg))
	require.NoError(t, svc.HandleOrderSettled(context.Background(), msg))

	assert.Len(t, sender.sent, 1)
}

func TestHandleOrderSettled_SenderFailureDoesNotFailMessage(t *testing.T) {
	sender := &recordingSender{err: errors.New("channel down")}
	svc := newService(t, sender)

	msg := settledMessage(t, "ev-2", []market.FarmerPayout{{FarmerID: "f1", AmountCents: 9500}})
	assert.NoError(t, svc.HandleOrderSettled(context.Background(), msg))
}

func TestHandleOrderSettled_IgnoresOtherEventTypes(t *testing.T) {
	sender := &recordingSender{}
	svc := newService(t, sender)

	env, err := json.Marshal(market.Envelope{
		EventID:   "ev-3",
		EventType: "SomethingElse",
		Payload:   json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleOrderSettled(context.Background(), kafkago.Message{Value: env}))
	assert.Empty(t, sender.sent)
}
