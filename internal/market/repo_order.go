package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PlaceOrder prices the cart against the products table and persists the
// order plus its line items in one transaction. Any missing product or stock
// shortfall rolls the whole placement back; a partial order is never visible.
//
// Stock is NOT decremented here. It is reserved only at settlement, so the
// availability check is advisory; FOR UPDATE still serializes it against a
// concurrent settlement decrementing the same rows.
func (r *Repo) PlaceOrder(ctx context.Context, buyerID string, entries []CartEntry) (*PlacedOrder, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}
	for _, e := range entries {
		if e.Qty <= 0 {
			return nil, fmt.Errorf("%w: product %s qty %d", ErrInvalidQuantity, e.ProductID, e.Qty)
		}
	}
	// Duplicate lines for one product must be stock-checked as a single
	// quantity, or an unfulfillable order slips through to settlement.
	entries = mergeEntries(entries)

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var total int64
	items := make([]OrderItem, 0, len(entries))
	for _, e := range entries {
		var farmerID string
		var price int64
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT farmer_id, price_cents, stock FROM products WHERE id=$1 FOR UPDATE`,
			e.ProductID).Scan(&farmerID, &price, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, e.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if stock < e.Qty {
			return nil, fmt.Errorf("%w: product %s has %d, requested %d",
				ErrInsufficientStock, e.ProductID, stock, e.Qty)
		}

		line := price * int64(e.Qty)
		total += line
		items = append(items, OrderItem{
			ProductID:      e.ProductID,
			FarmerID:       farmerID,
			Qty:            e.Qty,
			PriceCents:     price,
			LineTotalCents: line,
		})
	}

	order := Order{
		ID:            uuid.NewString(),
		BuyerID:       buyerID,
		TotalCents:    total,
		PaymentStatus: StatusPending,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO orders(id, buyer_id, total_cents, payment_status)
		VALUES ($1,$2,$3,$4) RETURNING created_at`,
		order.ID, order.BuyerID, order.TotalCents, order.PaymentStatus).Scan(&order.CreatedAt); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, product_id, farmer_id, qty, price_cents, line_total_cents)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			order.ID, items[i].ProductID, items[i].FarmerID,
			items[i].Qty, items[i].PriceCents, items[i].LineTotalCents).Scan(&items[i].ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &PlacedOrder{Order: order, Items: items}, nil
}

// mergeEntries sums quantities of repeated product ids, keeping first-seen order.
func mergeEntries(entries []CartEntry) []CartEntry {
	idx := make(map[string]int, len(entries))
	out := make([]CartEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := idx[e.ProductID]; ok {
			out[i].Qty += e.Qty
			continue
		}
		idx[e.ProductID] = len(out)
		out = append(out, e)
	}
	return out
}
