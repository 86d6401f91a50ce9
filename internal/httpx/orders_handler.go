package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/auth"
	kafkax "github.com/farm2market/market-api/internal/kafka"
	"github.com/farm2market/market-api/internal/market"
	"github.com/farm2market/market-api/internal/metrics"
	"github.com/farm2market/market-api/internal/redisx"
)

// OrderStore is the slice of market.Repo the order endpoints need.
type OrderStore interface {
	PlaceOrder(ctx context.Context, buyerID string, entries []market.CartEntry) (*market.PlacedOrder, error)
	GetOrder(ctx context.Context, orderID string) (*market.Order, []market.OrderItem, error)
	Settle(ctx context.Context, orderID string, status market.PaymentStatus, transactionRef string) (*market.SettlementResult, error)
}

// Publisher is satisfied by kafkax.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Store    OrderStore
	Producer Publisher
	Redis    *redis.Client
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	FeeRate  float64
	Service  string
}

type createOrderReq struct {
	CartItems []market.CartEntry `json:"cartItems"`
}

type createOrderResp struct {
	OrderID     string             `json:"orderId"`
	TotalAmount int64              `json:"totalAmount"`
	Items       []market.OrderItem `json:"items"`
}

type settleReq struct {
	PaymentStatus string `json:"paymentStatus"`
	TransactionID string `json:"transactionId"`
}

type orderResp struct {
	Order market.Order       `json:"order"`
	Items []market.OrderItem `json:"items"`
}

func (h *OrdersHandler) Register(r *chi.Mux, authn, admin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/orders", h.createOrder)
		r.Get("/orders/{orderId}", h.getOrder)
		r.With(admin).Post("/orders/{orderId}/payment", h.settle)
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	placed, err := h.Store.PlaceOrder(ctx, id.UserID, req.CartItems)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	h.Metrics.OrdersPlacedTotal.Inc()
	h.Metrics.OrdersPlacedAmountCents.Add(float64(placed.Order.TotalCents))
	h.cacheOrder(ctx, placed.Order, placed.Items)

	writeJSON(w, http.StatusCreated, createOrderResp{
		OrderID:     placed.Order.ID,
		TotalAmount: placed.Order.TotalCents,
		Items:       placed.Items,
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache first, DB is the source of truth
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	order, items, err := h.Store.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheOrder(ctx, *order, items)
	writeJSON(w, http.StatusOK, orderResp{Order: *order, Items: items})
}

func (h *OrdersHandler) settle(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	var req settleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	status, ok := market.ParseStatus(req.PaymentStatus)
	if !ok || status == market.StatusPending {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "paymentStatus must be Paid or Failed"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	res, err := h.Store.Settle(ctx, orderID, status, req.TransactionID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	h.cacheOrder(ctx, res.Order, res.Items)

	// Notification dispatch is decoupled from the transaction: the event goes
	// out only after commit, and only on the first application.
	if res.Applied {
		h.Metrics.OrdersSettledTotal.WithLabelValues(string(status)).Inc()
		h.publishSettled(r, res)
	}

	writeJSON(w, http.StatusOK, orderResp{Order: res.Order, Items: res.Items})
}

func (h *OrdersHandler) publishSettled(r *http.Request, res *market.SettlementResult) {
	settledAt := time.Now().UTC()
	if res.Order.PaidAt != nil {
		settledAt = *res.Order.PaidAt
	}
	payload := market.OrderSettledPayload{
		OrderID:        res.Order.ID,
		BuyerID:        res.Order.BuyerID,
		Status:         res.Order.PaymentStatus,
		TransactionRef: res.Order.TransactionRef,
		TotalCents:     res.Order.TotalCents,
		SettledAt:      settledAt,
	}
	if res.Order.PaymentStatus == market.StatusPaid {
		payload.Payouts = market.SplitPayout(res.Items, res.Order.TotalCents, h.FeeRate)
	}
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     market.EventOrderSettled,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       middleware.GetReqID(r.Context()),
		CorrelationID: res.Order.ID,
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(market.PartitionKey(res.Order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(market.EventOrderSettled)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) cacheOrder(ctx context.Context, order market.Order, items []market.OrderItem) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
	b, err := json.Marshal(orderResp{Order: order, Items: items})
	if err != nil {
		return
	}
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}
