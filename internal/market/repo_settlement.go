package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Settle moves an order out of PENDING. On PAID it also decrements stock for
// every line item, all inside one transaction with the order and product rows
// locked, so concurrent settlements of the same order or product serialize.
//
// Retrying with the identical (status, transaction_ref) on an already-settled
// order is a no-op returning the stored order: stock is decremented exactly
// once no matter how often the call is repeated. Any other transition out of
// a terminal status is ErrAlreadySettled.
func (r *Repo) Settle(ctx context.Context, orderID string, status PaymentStatus, transactionRef string) (*SettlementResult, error) {
	if status != StatusPaid && status != StatusFailed {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Order
	err = scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, orderID), &cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	if cur.PaymentStatus.Terminal() {
		if cur.PaymentStatus == status && cur.TransactionRef == transactionRef {
			items, err := r.orderItems(ctx, tx, orderID)
			if err != nil {
				return nil, err
			}
			return &SettlementResult{Order: cur, Items: items, Applied: false}, nil
		}
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadySettled, orderID, cur.PaymentStatus)
	}
	if !CanTransition(cur.PaymentStatus, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrAlreadySettled, cur.PaymentStatus, status)
	}

	err = scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET payment_status=$2,
		    transaction_ref=$3,
		    paid_at=CASE WHEN $2='PAID' THEN now() ELSE NULL END
		WHERE id=$1
		RETURNING `+orderColumns, orderID, status, transactionRef), &cur)
	if err != nil {
		return nil, err
	}

	items, err := r.orderItems(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if status == StatusPaid {
		for _, it := range items {
			var stock int
			if err := tx.QueryRow(ctx,
				`SELECT stock FROM products WHERE id=$1 FOR UPDATE`, it.ProductID).Scan(&stock); err != nil {
				return nil, err
			}
			// Fail loudly instead of driving stock negative; nothing commits.
			if stock < it.Qty {
				return nil, fmt.Errorf("%w: product %s has %d, order needs %d",
					ErrInsufficientStock, it.ProductID, stock, it.Qty)
			}
			if _, err := tx.Exec(ctx,
				`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id=$1`,
				it.ProductID, it.Qty); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &SettlementResult{Order: cur, Items: items, Applied: true}, nil
}
