package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/auth"
	"github.com/farm2market/market-api/internal/market"
)

type CartStore interface {
	SetItem(ctx context.Context, userID, productID string, qty int) error
	Get(ctx context.Context, userID string) ([]market.CartEntry, error)
	Clear(ctx context.Context, userID string) error
}

type CartHandler struct {
	Store CartStore
	Log   *zap.Logger
}

func (h *CartHandler) Register(r *chi.Mux, authn func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/cart", h.get)
		r.Put("/cart/items", h.setItem)
		r.Delete("/cart", h.clear)
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	entries, err := h.Store.Get(ctx, id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cartItems": entries})
}

func (h *CartHandler) setItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	var req market.CartEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.SetItem(ctx, id.UserID, req.ProductID, req.Qty); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Clear(ctx, id.UserID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
