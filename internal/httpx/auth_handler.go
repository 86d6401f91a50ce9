package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/auth"
)

type UserStore interface {
	Create(ctx context.Context, email, password, name, role string) (*auth.User, error)
	Authenticate(ctx context.Context, email, password string) (*auth.User, error)
}

type AuthHandler struct {
	Users  UserStore
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and a password of at least 8 characters are required"})
		return
	}
	switch req.Role {
	case auth.RoleBuyer, auth.RoleFarmer:
	case "":
		req.Role = auth.RoleBuyer
	default:
		// admin accounts are provisioned out of band
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be buyer or farmer"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	token, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResp{Token: token, User: u})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	token, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{Token: token, User: u})
}
