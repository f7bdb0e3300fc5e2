package summary

import (
	"context"

	"github.com/google/uuid"
)

// Repository reads order source data and stores summaries.
type Repository interface {
	// VendorName returns the display name of a vendor, or a not_found error.
	VendorName(ctx context.Context, vendorID uuid.UUID) (string, error)
	ListVendorIDs(ctx context.Context) ([]uuid.UUID, error)

	// SellSide aggregates order items sold by the vendor, grouped by order status.
	SellSide(ctx context.Context, vendorID uuid.UUID) (Side, error)
	// PurchaseSide aggregates orders placed by the vendor, grouped by status.
	PurchaseSide(ctx context.Context, vendorID uuid.UUID) (Side, error)

	// Upsert replaces the stored summary for s.VendorID.
	Upsert(ctx context.Context, s *VendorSummary) error
	// Get returns the stored summary, or a not_found error when none exists.
	Get(ctx context.Context, vendorID uuid.UUID) (*VendorSummary, error)
}
