package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/auth"
	"github.com/farm2market/market-api/internal/metrics"
)

type PendingStore interface {
	AdmitPendingTransaction(ctx context.Context, orderID, transactionRef string) (string, error)
}

type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

type TransactionsHandler struct {
	Store   PendingStore
	Cart    CartClearer
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

type pendingTxReq struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
}

func (h *TransactionsHandler) Register(r *chi.Mux, authn func(http.Handler) http.Handler) {
	r.With(authn).Post("/pending-transactions", h.create)
}

func (h *TransactionsHandler) create(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req pendingTxReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.OrderID == "" || req.TransactionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id and transaction_id are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	txID, err := h.Store.AdmitPendingTransaction(ctx, req.OrderID, req.TransactionID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Metrics.PendingTransactionsTotal.Inc()

	// Checkout is complete from the buyer's side; drop their active cart.
	if err := h.Cart.Clear(ctx, id.UserID); err != nil {
		h.Log.Warn("clear cart failed", zap.String("user_id", id.UserID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, map[string]string{"transaction_id": txID})
}
