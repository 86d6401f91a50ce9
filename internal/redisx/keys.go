package redisx

import "time"

const (
	// Active cart per buyer: hash cart:{user_id}, field product_id -> qty
	KeyCart = "cart:%s"

	// Cache of an order's payment status: order_status:{order_id}
	KeyOrderStatus = "order_status:%s"

	// Dedup of consumed settlement events: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCart        = 7 * 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
