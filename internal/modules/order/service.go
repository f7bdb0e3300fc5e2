package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/summary"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the cart, calculates totals, and persists the order atomically.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves a full order with its items by UUID.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListVendorOrders returns a vendor's orders, optionally narrowed to one side and status.
	ListVendorOrders(ctx context.Context, vendorID string, side Side, status string) ([]*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels an order that has not shipped yet.
	CancelOrder(ctx context.Context, id string) (*Order, error)
}

// SummaryRefresher recomputes vendor analytics after order data changes.
type SummaryRefresher interface {
	RefreshVendorSummary(ctx context.Context, vendorID string) (*summary.VendorSummary, error)
}

type service struct {
	repo      Repository
	summaries SummaryRefresher
	log       *zap.Logger
}

// NewService creates a new order service. summaries may be nil.
func NewService(repo Repository, summaries SummaryRefresher, log *zap.Logger) Service {
	return &service{repo: repo, summaries: summaries, log: log}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperr.Validation("invalid customer_id")
	}

	var items []*OrderItem
	var subtotal float64
	for _, ci := range req.Items {
		if ci.Quantity <= 0 {
			return nil, apperr.Newf(apperr.CodeValidation, "quantity must be > 0 for %s", ci.ProductName)
		}
		if ci.UnitPrice < 0 {
			return nil, apperr.Newf(apperr.CodeValidation, "unit_price must not be negative for %s", ci.ProductName)
		}
		vendorID, err := uuid.Parse(ci.VendorID)
		if err != nil {
			return nil, apperr.Validation("invalid vendor_id")
		}
		if vendorID == customerID {
			return nil, apperr.Validation("a vendor cannot order its own products")
		}

		lineTotal := round2(ci.UnitPrice * float64(ci.Quantity))
		subtotal += lineTotal
		items = append(items, &OrderItem{
			ID:          uuid.New(),
			VendorID:    vendorID,
			ProductName: strings.TrimSpace(ci.ProductName),
			NDCCode:     strings.TrimSpace(ci.NDCCode),
			Quantity:    ci.Quantity,
			UnitPrice:   ci.UnitPrice,
			LineTotal:   lineTotal,
		})
	}

	now := time.Now().UTC()
	o := &Order{
		ID:          uuid.New(),
		OrderNumber: generateOrderNumber(now),
		CustomerID:  customerID,
		Status:      StatusPending,
		Subtotal:    round2(subtotal),
		Total:       round2(subtotal),
		Currency:    "USD",
		Notes:       req.Notes,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, item := range items {
		item.OrderID = o.ID
		item.CreatedAt = now
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.Int("items", len(items)))
	s.refreshSummaries(ctx, o)
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) ListVendorOrders(ctx context.Context, vendorID string, side Side, status string) ([]*Order, error) {
	if _, err := uuid.Parse(vendorID); err != nil {
		return nil, apperr.Validation("invalid vendor_id")
	}
	switch side {
	case SideAll, SidePurchase, SideSell:
	default:
		return nil, apperr.Newf(apperr.CodeValidation, "unknown side %q", side)
	}
	st := OrderStatus(strings.ToLower(status))
	if st != "" {
		if _, ok := validTransitions[st]; !ok {
			return nil, apperr.Newf(apperr.CodeValidation, "unknown order status %q", status)
		}
	}
	return s.repo.ListOrdersByVendor(ctx, vendorID, side, st)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := OrderStatus(strings.ToLower(req.Status))
	if _, known := validTransitions[newStatus]; !known {
		return nil, apperr.Newf(apperr.CodeValidation, "unknown order status %q", req.Status)
	}
	allowed := validTransitions[o.Status]
	valid := false
	for _, st := range allowed {
		if st == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperr.Newf(apperr.CodeInvalidTransition, "cannot transition order from %s to %s", o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, o.Status, newStatus); err != nil {
		return nil, err
	}
	s.log.Info("order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("from", string(o.Status)),
		zap.String("to", string(newStatus)))

	o.Status = newStatus
	o.UpdatedAt = time.Now().UTC()
	s.refreshSummaries(ctx, o)
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, id string) (*Order, error) {
	return s.UpdateStatus(ctx, id, UpdateStatusRequest{Status: string(StatusCancelled)})
}

// refreshSummaries recomputes analytics for every vendor on o. Failures are
// logged; the order change itself has already been committed, so the refresh
// outlives a cancelled request.
func (s *service) refreshSummaries(ctx context.Context, o *Order) {
	if s.summaries == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, id := range o.VendorIDs() {
		if _, err := s.summaries.RefreshVendorSummary(ctx, id.String()); err != nil {
			s.log.Warn("vendor summary refresh failed",
				zap.String("order_id", o.ID.String()),
				zap.String("vendor_id", id.String()),
				zap.Error(err))
		}
	}
}

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXXXX
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
