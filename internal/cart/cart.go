package cart

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/farm2market/market-api/internal/market"
	"github.com/farm2market/market-api/internal/redisx"
)

// Store keeps each buyer's active cart in a Redis hash
// (field product_id -> qty) so checkout completion can clear it server-side.
type Store struct{ Redis *redis.Client }

func key(userID string) string { return fmt.Sprintf(redisx.KeyCart, userID) }

// SetItem upserts one product's quantity; qty <= 0 removes the line.
func (s *Store) SetItem(ctx context.Context, userID, productID string, qty int) error {
	k := key(userID)
	if qty <= 0 {
		return s.Redis.HDel(ctx, k, productID).Err()
	}
	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, k, productID, qty)
	pipe.Expire(ctx, k, redisx.TTLCart)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Get(ctx context.Context, userID string) ([]market.CartEntry, error) {
	fields, err := s.Redis.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]market.CartEntry, 0, len(fields))
	for productID, raw := range fields {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			continue // skip corrupt field rather than failing the whole cart
		}
		out = append(out, market.CartEntry{ProductID: productID, Qty: qty})
	}
	return out, nil
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, key(userID)).Err()
}
