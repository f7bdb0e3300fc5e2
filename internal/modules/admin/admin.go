package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Permissions is the fixed permission set carried on every admin record.
type Permissions struct {
	CanApproveVendors bool `json:"canApproveVendors"`
	CanManageAdmins   bool `json:"canManageAdmins"`
	CanViewAnalytics  bool `json:"canViewAnalytics"`
	CanManageSettings bool `json:"canManageSettings"`
	CanSuspendVendors bool `json:"canSuspendVendors"`
}

// Admin is a back-office operator.
type Admin struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Name         string      `json:"name"`
	Role         string      `json:"role"`
	IsActive     bool        `json:"isActive"`
	Permissions  Permissions `json:"permissions"`
	LastLoginAt  *time.Time  `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Action is something an admin may attempt.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionSuspend        Action = "suspend"
	ActionReactivate     Action = "reactivate"
	ActionViewAnalytics  Action = "view_analytics"
	ActionManageAdmins   Action = "manage_admins"
	ActionManageSettings Action = "manage_settings"
)

// Authorize reports whether a may perform action. Inactive admins are denied
// everything. The caller is trusted to have verified the session already.
func Authorize(a *Admin, action Action) bool {
	if a == nil || !a.IsActive {
		return false
	}
	p := a.Permissions
	switch action {
	case ActionApprove, ActionReject, ActionReactivate:
		return p.CanApproveVendors
	case ActionSuspend:
		return p.CanSuspendVendors
	case ActionViewAnalytics:
		return p.CanViewAnalytics
	case ActionManageAdmins:
		return p.CanManageAdmins
	case ActionManageSettings:
		return p.CanManageSettings
	}
	return false
}

type contextKey struct{}

// WithAdmin stores the verified acting admin on ctx.
func WithAdmin(ctx context.Context, a *Admin) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the acting admin, or nil when the request is anonymous.
func FromContext(ctx context.Context) *Admin {
	a, _ := ctx.Value(contextKey{}).(*Admin)
	return a
}
