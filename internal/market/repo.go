package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, buyer_id, total_cents, payment_status, COALESCE(transaction_ref, ''), created_at, paid_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.BuyerID, &o.TotalCents, &o.PaymentStatus, &o.TransactionRef, &o.CreatedAt, &o.PaidAt)
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, farmer_id, name, description, category, unit, price_cents, stock, COALESCE(image_url, ''), created_at, updated_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Category, &p.Unit,
			&p.PriceCents, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, farmer_id, name, description, category, unit, price_cents, stock, COALESCE(image_url, ''), created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Category, &p.Unit,
			&p.PriceCents, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.DB.QueryRow(ctx, `
		INSERT INTO products(id, farmer_id, name, description, category, unit, price_cents, stock, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''))
		RETURNING created_at, updated_at`,
		p.ID, p.FarmerID, p.Name, p.Description, p.Category, p.Unit, p.PriceCents, p.Stock, p.ImageURL).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (*Order, []OrderItem, error) {
	var o Order
	err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, orderID), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, nil, err
	}
	items, err := r.orderItems(ctx, r.DB, orderID)
	if err != nil {
		return nil, nil, err
	}
	return &o, items, nil
}

// querier covers both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repo) orderItems(ctx context.Context, q querier, orderID string) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, farmer_id, qty, price_cents, line_total_cents
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.FarmerID,
			&it.Qty, &it.PriceCents, &it.LineTotalCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
