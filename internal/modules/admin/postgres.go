package admin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/database"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL admin repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const adminColumns = `id, email, password_hash, name, role, is_active,
	can_approve_vendors, can_manage_admins, can_view_analytics, can_manage_settings, can_suspend_vendors,
	last_login_at, created_at, updated_at`

func (r *postgresRepository) CreateAdmin(ctx context.Context, a *Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, name, role, is_active,
			can_approve_vendors, can_manage_admins, can_view_analytics, can_manage_settings, can_suspend_vendors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	p := a.Permissions
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.PasswordHash, a.Name, a.Role, a.IsActive,
		p.CanApproveVendors, p.CanManageAdmins, p.CanViewAnalytics, p.CanManageSettings, p.CanSuspendVendors)
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("an admin with this email already exists")
	}
	return err
}

func (r *postgresRepository) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

func (r *postgresRepository) GetAdminByID(ctx context.Context, id string) (*Admin, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("admin not found")
	}
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, parsedID))
}

func (r *postgresRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admins SET last_login_at = $1, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	return err
}

func (r *postgresRepository) scan(row *sql.Row) (*Admin, error) {
	a := &Admin{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.Role,
		&a.IsActive,
		&a.Permissions.CanApproveVendors,
		&a.Permissions.CanManageAdmins,
		&a.Permissions.CanViewAnalytics,
		&a.Permissions.CanManageSettings,
		&a.Permissions.CanSuspendVendors,
		&lastLogin,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("admin not found")
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginAt = &t
	}
	return a, nil
}
