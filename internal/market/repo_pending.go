package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdmitPendingTransaction records a buyer's claim of payment exactly once.
// The insert is keyed on (order_id, transaction_ref); a repeat submission of
// the same pair inserts nothing and is reported as ErrDuplicateTransaction.
func (r *Repo) AdmitPendingTransaction(ctx context.Context, orderID, transactionRef string) (string, error) {
	var exists int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM orders WHERE id=$1`, orderID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO pending_transactions(id, order_id, transaction_ref)
		VALUES ($1,$2,$3)
		ON CONFLICT (order_id, transaction_ref) DO NOTHING`,
		id, orderID, transactionRef)
	if err != nil {
		return "", err
	}
	if ct.RowsAffected() == 0 {
		return "", fmt.Errorf("%w: order %s ref %s", ErrDuplicateTransaction, orderID, transactionRef)
	}
	return id, nil
}
