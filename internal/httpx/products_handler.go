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

type ProductStore interface {
	ListProducts(ctx context.Context) ([]market.Product, error)
	GetProduct(ctx context.Context, id string) (*market.Product, error)
	CreateProduct(ctx context.Context, p *market.Product) error
}

type ProductsHandler struct {
	Store ProductStore
	Log   *zap.Logger
}

type createProductReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
}

func (h *ProductsHandler) Register(r *chi.Mux, authn, farmer func(http.Handler) http.Handler) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.With(authn, farmer).Post("/products", h.create)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Store.ListProducts(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Name == "" || req.PriceCents <= 0 || req.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, positive price_cents and non-negative stock are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := market.Product{
		FarmerID:    id.UserID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := h.Store.CreateProduct(ctx, &p); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
