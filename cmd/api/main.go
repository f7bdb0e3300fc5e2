package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/admin"
	"github.com/georgemunganga/pharmahub-backend/internal/modules/notification"
	"github.com/georgemunganga/pharmahub-backend/internal/modules/order"
	"github.com/georgemunganga/pharmahub-backend/internal/modules/summary"
	"github.com/georgemunganga/pharmahub-backend/internal/modules/vendor"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/config"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/database"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/httpx"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/lock"
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

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logg.Info("connected to the database")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	notifier, err := notification.New(ctx, cfg.AWS, logg.Named("notification"))
	if err != nil {
		return err
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpx.RequestLogger(logg.Named("http")))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httpx.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	// ── Admin identity ──────────────────────────────────────
	adminRepo := admin.NewPostgresRepository(db)
	adminService := admin.NewService(adminRepo, admin.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.CookieMaxAge))
	adminHandler := admin.NewHandler(adminService, admin.CookieSettingsFor(cfg.Auth.CookieName, cfg.IsDevelopment()), logg.Named("admin"))

	// ── Vendor review workflow ──────────────────────────────
	vendorRepo := vendor.NewPostgresRepository(db)
	vendorService := vendor.NewService(vendorRepo, vendor.NewWorkflow(cfg.Workflow.RejectedRecoverable), notifier, logg.Named("vendor"))
	vendorHandler := vendor.NewHandler(vendorService, logg.Named("vendor"))

	// ── Vendor analytics ────────────────────────────────────
	summaryRepo := summary.NewPostgresRepository(db)
	summaryService := summary.NewService(summaryRepo,
		lock.NewLocker(rdb, cfg.Summary.LockTTL, cfg.Summary.LockWait),
		logg.Named("summary"),
		summary.WithConcurrency(cfg.Summary.Concurrency))
	summaryHandler := summary.NewHandler(summaryService, logg.Named("summary"))

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, summaryService, logg.Named("order"))
	// Order routes stay outside RequireSession: they are the vendor-facing API, not back-office.
	order.NewHandler(orderService, logg.Named("order")).RegisterRoutes(router)

	adminHandler.RegisterPublicRoutes(router)
	vendorHandler.RegisterPublicRoutes(router)
	router.Group(func(r chi.Router) {
		r.Use(admin.RequireSession(adminService, cfg.Auth.CookieName, logg.Named("admin")))
		adminHandler.RegisterRoutes(r)
		vendorHandler.RegisterRoutes(r)
		summaryHandler.RegisterRoutes(r)
	})

	go summary.RunPeriodic(ctx, summaryService, cfg.Summary.RefreshInterval, logg.Named("summary"))

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logg.Info("PharmaHub API server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
