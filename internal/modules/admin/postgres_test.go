package admin

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
)

var adminRowColumns = []string{
	"id", "email", "password_hash", "name", "role", "is_active",
	"can_approve_vendors", "can_manage_admins", "can_view_analytics", "can_manage_settings", "can_suspend_vendors",
	"last_login_at", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPostgres_GetAdminByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM admins WHERE email = \$1`).
		WithArgs("ops@example.com").
		WillReturnRows(sqlmock.NewRows(adminRowColumns).AddRow(
			id.String(), "ops@example.com", "hash", "Ops", "admin", true,
			true, false, true, false, true,
			nil, now, now))

	a, err := repo.GetAdminByEmail(context.Background(), "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.True(t, a.Permissions.CanApproveVendors)
	assert.False(t, a.Permissions.CanManageAdmins)
	assert.True(t, a.Permissions.CanSuspendVendors)
	assert.Nil(t, a.LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetAdminByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM admins WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAdminByID(context.Background(), id.String())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestPostgres_GetAdminByID_MalformedID(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := NewPostgresRepository(db).GetAdminByID(context.Background(), "not-a-uuid")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestPostgres_CreateAdmin_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`INSERT INTO admins`).WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateAdmin(context.Background(), &Admin{ID: uuid.New(), Email: "ops@example.com"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}
