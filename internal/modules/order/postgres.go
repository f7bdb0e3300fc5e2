package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `o.id, o.order_number, o.customer_id, o.status, o.subtotal, o.total, o.currency, o.notes,
	o.created_at, o.updated_at`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, status, subtotal, total, currency, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.OrderNumber, o.CustomerID, o.Status, o.Subtotal, o.Total, o.Currency, o.Notes,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return translateWriteError("insert order", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, vendor_id, product_name, ndc_code, quantity, unit_price, line_total, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			item.ID, o.ID, item.VendorID, item.ProductName, item.NDCCode,
			item.Quantity, item.UnitPrice, item.LineTotal, item.CreatedAt)
		if err != nil {
			return translateWriteError("insert order_item", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("order not found")
	}
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, uid)
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.order_number = $1`, orderNumber)
}

func (r *postgresRepo) ListOrdersByVendor(ctx context.Context, vendorID string, side Side, status OrderStatus) ([]*Order, error) {
	var where string
	switch side {
	case SidePurchase:
		where = `o.customer_id = $1`
	case SideSell:
		where = `EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.vendor_id = $1)`
	default:
		where = `(o.customer_id = $1 OR EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.vendor_id = $1))`
	}
	args := []interface{}{vendorID}
	if status != "" {
		where += ` AND o.status = $2`
		args = append(args, status)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders o WHERE `+where+` ORDER BY o.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.Newf(apperr.CodeConcurrentModification, "order is no longer %s", from)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) getOrder(ctx context.Context, query string, arg interface{}) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func scanOrder(row scanner) (*Order, error) {
	o := &Order{}
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.Subtotal, &o.Total,
		&o.Currency, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, vendor_id, product_name, ndc_code, quantity, unit_price, line_total, created_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.VendorID, &item.ProductName, &item.NDCCode,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func translateWriteError(op string, err error) error {
	switch {
	case database.IsForeignKeyViolation(err):
		return apperr.Wrap(err, apperr.CodeValidation, "order references an unknown vendor")
	case database.IsUniqueViolation(err):
		return apperr.Wrap(err, apperr.CodeConflict, "order number already exists")
	}
	return fmt.Errorf("%s: %w", op, err)
}
