// Command admin-seed provisions a back-office admin account.
//
//	ADMIN_EMAIL=ops@example.com ADMIN_PASSWORD=... ADMIN_NAME=Ops go run ./cmd/admin-seed
//
// The new admin gets every permission unless ADMIN_READ_ONLY=true, in which
// case it may only view analytics.
package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/admin"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/config"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/database"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/httpx"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logg.Sync()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logg.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logg.Fatal("migrate", zap.Error(err))
	}

	readOnly, _ := strconv.ParseBool(os.Getenv("ADMIN_READ_ONLY"))
	perms := admin.Permissions{CanViewAnalytics: true}
	if !readOnly {
		perms = admin.Permissions{
			CanApproveVendors: true,
			CanManageAdmins:   true,
			CanViewAnalytics:  true,
			CanManageSettings: true,
			CanSuspendVendors: true,
		}
	}
	req := admin.CreateAdminRequest{
		Email:       os.Getenv("ADMIN_EMAIL"),
		Password:    os.Getenv("ADMIN_PASSWORD"),
		Name:        os.Getenv("ADMIN_NAME"),
		Role:        os.Getenv("ADMIN_ROLE"),
		Permissions: perms,
	}
	if err := httpx.Validate(req); err != nil {
		logg.Fatal("invalid admin", zap.Error(err))
	}

	svc := admin.NewService(admin.NewPostgresRepository(db), admin.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.CookieMaxAge))
	a, err := svc.CreateAdmin(ctx, req)
	if err != nil {
		logg.Fatal("create admin", zap.Error(err))
	}
	logg.Info("admin created", zap.String("id", a.ID.String()), zap.String("email", a.Email), zap.Bool("read_only", readOnly))
}
