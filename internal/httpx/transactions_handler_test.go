package httpx

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/cart"
	"github.com/farm2market/market-api/internal/market"
)

type stubPendingStore struct {
	id  string
	err error
}

func (s *stubPendingStore) AdmitPendingTransaction(ctx context.Context, orderID, ref string) (string, error) {
	return s.id, s.err
}

func newTransactionsRig(t *testing.T, store *stubPendingStore) (http.Handler, *cart.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	cs := &cart.Store{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	h := &TransactionsHandler{Store: store, Cart: cs, Log: zap.NewNop(), Metrics: testMetrics}
	router := NewRouter()
	h.Register(router, injectIdentity(buyer()))
	return router, cs
}

func TestPendingTransaction_SuccessClearsCart(t *testing.T) {
	h, cs := newTransactionsRig(t, &stubPendingStore{id: "pt-1"})
	ctx := context.Background()
	require.NoError(t, cs.SetItem(ctx, "buyer-1", "p7", 2))

	rec := doJSON(t, h, http.MethodPost, "/pending-transactions", map[string]string{
		"order_id": "o1", "transaction_id": "tx-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "pt-1")

	entries, err := cs.Get(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPendingTransaction_MissingFields(t *testing.T) {
	h, _ := newTransactionsRig(t, &stubPendingStore{id: "pt-1"})
	for _, body := range []map[string]string{
		{"transaction_id": "tx-1"},
		{"order_id": "o1"},
		{},
	} {
		rec := doJSON(t, h, http.MethodPost, "/pending-transactions", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestPendingTransaction_OrderNotFound(t *testing.T) {
	h, _ := newTransactionsRig(t, &stubPendingStore{err: market.ErrOrderNotFound})
	rec := doJSON(t, h, http.MethodPost, "/pending-transactions", map[string]string{
		"order_id": "nope", "transaction_id": "tx-1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPendingTransaction_DuplicateConflict(t *testing.T) {
	h, cs := newTransactionsRig(t, &stubPendingStore{err: market.ErrDuplicateTransaction})
	ctx := context.Background()
	require.NoError(t, cs.SetItem(ctx, "buyer-1", "p7", 2))

	rec := doJSON(t, h, http.MethodPost, "/pending-transactions", map[string]string{
		"order_id": "o1", "transaction_id": "tx-1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A rejected duplicate must not clear the cart.
	entries, err := cs.Get(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
