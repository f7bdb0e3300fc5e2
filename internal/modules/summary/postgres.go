package summary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL summary repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) VendorName(ctx context.Context, vendorID uuid.UUID) (string, error) {
	var legal, dba string
	err := r.db.QueryRowContext(ctx, `SELECT legal_business_name, dba FROM vendors WHERE id = $1`, vendorID).
		Scan(&legal, &dba)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("vendor not found")
	}
	if err != nil {
		return "", err
	}
	if dba != "" {
		return dba, nil
	}
	return legal, nil
}

func (r *postgresRepository) ListVendorIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM vendors ORDER BY registered_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepository) SellSide(ctx context.Context, vendorID uuid.UUID) (Side, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.status, COUNT(DISTINCT o.id), COALESCE(SUM(oi.line_total), 0), COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.vendor_id = $1
		GROUP BY o.status`, vendorID)
	if err != nil {
		return Side{}, fmt.Errorf("aggregate sell side: %w", err)
	}
	defer rows.Close()

	side := Side{Breakdown: Breakdown{}}
	for rows.Next() {
		var status string
		var b Bucket
		if err := rows.Scan(&status, &b.Orders, &b.Amount, &b.Items); err != nil {
			return Side{}, err
		}
		side.Breakdown[status] = b
	}
	if err := rows.Err(); err != nil {
		return Side{}, err
	}

	var last sql.NullTime
	err = r.db.QueryRowContext(ctx, `
		SELECT MAX(o.created_at)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.vendor_id = $1`, vendorID).Scan(&last)
	if err != nil {
		return Side{}, fmt.Errorf("last sell order: %w", err)
	}
	if last.Valid {
		side.LastOrderAt = &last.Time
	}
	return side, nil
}

func (r *postgresRepository) PurchaseSide(ctx context.Context, vendorID uuid.UUID) (Side, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE customer_id = $1
		GROUP BY status`, vendorID)
	if err != nil {
		return Side{}, fmt.Errorf("aggregate purchase side: %w", err)
	}
	defer rows.Close()

	side := Side{Breakdown: Breakdown{}}
	for rows.Next() {
		var status string
		var b Bucket
		if err := rows.Scan(&status, &b.Orders, &b.Amount); err != nil {
			return Side{}, err
		}
		side.Breakdown[status] = b
	}
	if err := rows.Err(); err != nil {
		return Side{}, err
	}

	var last sql.NullTime
	err = r.db.QueryRowContext(ctx, `SELECT MAX(created_at) FROM orders WHERE customer_id = $1`, vendorID).Scan(&last)
	if err != nil {
		return Side{}, fmt.Errorf("last purchase order: %w", err)
	}
	if last.Valid {
		side.LastOrderAt = &last.Time
	}
	return side, nil
}

func (r *postgresRepository) Upsert(ctx context.Context, s *VendorSummary) error {
	sell, err := json.Marshal(s.SellStatusBreakdown)
	if err != nil {
		return err
	}
	purchase, err := json.Marshal(s.PurchaseStatusBreakdown)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO vendor_summaries (vendor_id, vendor_name, total_sell_orders, total_revenue, total_items_sold,
			sell_status_breakdown, total_purchase_orders, total_purchase_amount, purchase_status_breakdown,
			avg_sell_order_value, avg_purchase_order_value, fulfillment_rate, last_sell_order_at,
			last_purchase_order_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (vendor_id) DO UPDATE SET
			vendor_name = EXCLUDED.vendor_name,
			total_sell_orders = EXCLUDED.total_sell_orders,
			total_revenue = EXCLUDED.total_revenue,
			total_items_sold = EXCLUDED.total_items_sold,
			sell_status_breakdown = EXCLUDED.sell_status_breakdown,
			total_purchase_orders = EXCLUDED.total_purchase_orders,
			total_purchase_amount = EXCLUDED.total_purchase_amount,
			purchase_status_breakdown = EXCLUDED.purchase_status_breakdown,
			avg_sell_order_value = EXCLUDED.avg_sell_order_value,
			avg_purchase_order_value = EXCLUDED.avg_purchase_order_value,
			fulfillment_rate = EXCLUDED.fulfillment_rate,
			last_sell_order_at = EXCLUDED.last_sell_order_at,
			last_purchase_order_at = EXCLUDED.last_purchase_order_at,
			updated_at = EXCLUDED.updated_at`,
		s.VendorID, s.VendorName, s.TotalSellOrders, s.TotalRevenue, s.TotalItemsSold,
		sell, s.TotalPurchaseOrders, s.TotalPurchaseAmount, purchase,
		s.AvgSellOrderValue, s.AvgPurchaseOrderValue, s.FulfillmentRate, s.LastSellOrderAt,
		s.LastPurchaseOrderAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert vendor summary: %w", err)
	}
	return nil
}

func (r *postgresRepository) Get(ctx context.Context, vendorID uuid.UUID) (*VendorSummary, error) {
	s := &VendorSummary{}
	var sell, purchase []byte
	var lastSell, lastPurchase sql.NullTime

	err := r.db.QueryRowContext(ctx, `
		SELECT vendor_id, vendor_name, total_sell_orders, total_revenue, total_items_sold,
			sell_status_breakdown, total_purchase_orders, total_purchase_amount, purchase_status_breakdown,
			avg_sell_order_value, avg_purchase_order_value, fulfillment_rate, last_sell_order_at,
			last_purchase_order_at, updated_at
		FROM vendor_summaries WHERE vendor_id = $1`, vendorID).Scan(
		&s.VendorID, &s.VendorName, &s.TotalSellOrders, &s.TotalRevenue, &s.TotalItemsSold,
		&sell, &s.TotalPurchaseOrders, &s.TotalPurchaseAmount, &purchase,
		&s.AvgSellOrderValue, &s.AvgPurchaseOrderValue, &s.FulfillmentRate, &lastSell,
		&lastPurchase, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("vendor summary not found")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sell, &s.SellStatusBreakdown); err != nil {
		return nil, fmt.Errorf("decode sell breakdown: %w", err)
	}
	if err := json.Unmarshal(purchase, &s.PurchaseStatusBreakdown); err != nil {
		return nil, fmt.Errorf("decode purchase breakdown: %w", err)
	}
	if lastSell.Valid {
		s.LastSellOrderAt = &lastSell.Time
	}
	if lastPurchase.Valid {
		s.LastPurchaseOrderAt = &lastPurchase.Time
	}
	return s, nil
}
