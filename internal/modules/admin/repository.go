package admin

import "context"

// Repository defines the interface for admin data storage.
type Repository interface {
	CreateAdmin(ctx context.Context, a *Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
	GetAdminByID(ctx context.Context, id string) (*Admin, error)
	TouchLastLogin(ctx context.Context, id string) error
}
