package summary

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Bucket aggregates the orders of a vendor that share one order status.
type Bucket struct {
	Orders int     `json:"orders"`
	Amount float64 `json:"amount"`
	Items  int     `json:"items,omitempty"`
}

// Breakdown maps an order status to its bucket.
type Breakdown map[string]Bucket

func (b Breakdown) totals() (orders int, amount float64, items int) {
	for _, bucket := range b {
		orders += bucket.Orders
		amount += bucket.Amount
		items += bucket.Items
	}
	return orders, amount, items
}

// Side is the raw aggregate of one side of a vendor's trade: what it sold
// or what it bought.
type Side struct {
	Breakdown   Breakdown
	LastOrderAt *time.Time
}

// VendorSummary is the stored analytics projection for one vendor. It is
// recomputed wholesale on every refresh.
type VendorSummary struct {
	VendorID   uuid.UUID `json:"vendor_id"`
	VendorName string    `json:"vendor_name"`

	TotalSellOrders     int       `json:"total_sell_orders"`
	TotalRevenue        float64   `json:"total_revenue"`
	TotalItemsSold      int       `json:"total_items_sold"`
	SellStatusBreakdown Breakdown `json:"sell_status_breakdown"`

	TotalPurchaseOrders     int       `json:"total_purchase_orders"`
	TotalPurchaseAmount     float64   `json:"total_purchase_amount"`
	PurchaseStatusBreakdown Breakdown `json:"purchase_status_breakdown"`

	AvgSellOrderValue     float64    `json:"avg_sell_order_value"`
	AvgPurchaseOrderValue float64    `json:"avg_purchase_order_value"`
	FulfillmentRate       float64    `json:"fulfillment_rate"`
	LastSellOrderAt       *time.Time `json:"last_sell_order_at"`
	LastPurchaseOrderAt   *time.Time `json:"last_purchase_order_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// deliveredStatus is the order status counted as fulfilled.
const deliveredStatus = "delivered"

// Compute folds both sides into a summary. It is pure: the same inputs
// always produce the same summary.
func Compute(vendorID uuid.UUID, vendorName string, sell, purchase Side, now time.Time) *VendorSummary {
	if sell.Breakdown == nil {
		sell.Breakdown = Breakdown{}
	}
	if purchase.Breakdown == nil {
		purchase.Breakdown = Breakdown{}
	}
	sellOrders, revenue, items := sell.Breakdown.totals()
	purchaseOrders, spent, _ := purchase.Breakdown.totals()

	s := &VendorSummary{
		VendorID:                vendorID,
		VendorName:              vendorName,
		TotalSellOrders:         sellOrders,
		TotalRevenue:            round2(revenue),
		TotalItemsSold:          items,
		SellStatusBreakdown:     sell.Breakdown,
		TotalPurchaseOrders:     purchaseOrders,
		TotalPurchaseAmount:     round2(spent),
		PurchaseStatusBreakdown: purchase.Breakdown,
		LastSellOrderAt:         sell.LastOrderAt,
		LastPurchaseOrderAt:     purchase.LastOrderAt,
		UpdatedAt:               now,
	}
	if sellOrders > 0 {
		s.AvgSellOrderValue = round2(revenue / float64(sellOrders))
		s.FulfillmentRate = float64(sell.Breakdown[deliveredStatus].Orders) / float64(sellOrders)
	}
	if purchaseOrders > 0 {
		s.AvgPurchaseOrderValue = round2(spent / float64(purchaseOrders))
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
