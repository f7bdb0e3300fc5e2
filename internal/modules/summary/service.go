package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/lock"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/metrics"
)

// Service maintains the per-vendor analytics projection.
type Service interface {
	// RefreshVendorSummary recomputes and stores the summary for one vendor.
	// Refreshes of the same vendor never interleave.
	RefreshVendorSummary(ctx context.Context, vendorID string) (*VendorSummary, error)

	// RefreshAll refreshes every vendor with bounded concurrency. It keeps
	// going past individual failures and returns them joined.
	RefreshAll(ctx context.Context) error

	// GetVendorSummary returns the stored summary, computing it first when
	// the vendor has none yet.
	GetVendorSummary(ctx context.Context, vendorID string) (*VendorSummary, error)
}

// Locker serializes work per key. *lock.Locker satisfies it.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}

type service struct {
	repo        Repository
	locker      Locker
	log         *zap.Logger
	tracer      trace.Tracer
	concurrency int
	now         func() time.Time
}

// Option customizes the service.
type Option func(*service)

// WithConcurrency bounds how many vendors RefreshAll processes at once.
func WithConcurrency(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *service) { s.tracer = t }
}

func NewService(repo Repository, locker Locker, log *zap.Logger, opts ...Option) Service {
	s := &service{
		repo:        repo,
		locker:      locker,
		log:         log,
		concurrency: 4,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("pharmahub/summary")
	}
	return s
}

func lockKey(vendorID uuid.UUID) string {
	return "lock:vendor-summary:" + vendorID.String()
}

func (s *service) RefreshVendorSummary(ctx context.Context, vendorID string) (*VendorSummary, error) {
	id, err := uuid.Parse(vendorID)
	if err != nil {
		return nil, apperr.NotFound("vendor not found")
	}
	return s.refresh(ctx, id)
}

func (s *service) refresh(ctx context.Context, vendorID uuid.UUID) (summary *VendorSummary, err error) {
	ctx, span := s.tracer.Start(ctx, "summary.refresh",
		trace.WithAttributes(attribute.String("vendor_id", vendorID.String())))
	start := time.Now()
	defer func() {
		metrics.SummaryRefreshDuration.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = string(apperr.CodeOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.SummaryRefreshes.WithLabelValues(result).Inc()
		span.End()
	}()

	release, err := s.locker.Acquire(ctx, lockKey(vendorID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, apperr.ConcurrentModification("summary refresh already in progress for this vendor")
		}
		return nil, fmt.Errorf("lock vendor summary: %w", err)
	}
	defer func() {
		// Release even when ctx was cancelled mid-refresh.
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			s.log.Warn("release summary lock", zap.String("vendor_id", vendorID.String()), zap.Error(rerr))
		}
	}()

	name, err := s.repo.VendorName(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	var sell, purchase Side
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sell, err = s.repo.SellSide(gctx, vendorID)
		return err
	})
	g.Go(func() error {
		var err error
		purchase, err = s.repo.PurchaseSide(gctx, vendorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary = Compute(vendorID, name, sell, purchase, s.now().UTC())
	if err := s.repo.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("sell_orders", summary.TotalSellOrders),
		attribute.Int("purchase_orders", summary.TotalPurchaseOrders))
	s.log.Debug("vendor summary refreshed",
		zap.String("vendor_id", vendorID.String()),
		zap.Int("sell_orders", summary.TotalSellOrders),
		zap.Int("purchase_orders", summary.TotalPurchaseOrders))
	return summary, nil
}

func (s *service) RefreshAll(ctx context.Context) error {
	ids, err := s.repo.ListVendorIDs(ctx)
	if err != nil {
		return fmt.Errorf("list vendors: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	errs := make([]error, len(ids))
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if _, err := s.refresh(ctx, id); err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
				errs[i] = fmt.Errorf("vendor %s: %w", id, err)
			}
			return nil
		})
	}
	g.Wait()

	joined := errors.Join(errs...)
	if joined != nil {
		s.log.Warn("vendor summary refresh incomplete", zap.Int("vendors", len(ids)), zap.Error(joined))
	}
	return joined
}

func (s *service) GetVendorSummary(ctx context.Context, vendorID string) (*VendorSummary, error) {
	id, err := uuid.Parse(vendorID)
	if err != nil {
		return nil, apperr.NotFound("vendor not found")
	}
	if _, err := s.repo.VendorName(ctx, id); err != nil {
		return nil, err
	}

	summary, err := s.repo.Get(ctx, id)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return s.refresh(ctx, id)
	}
	return summary, err
}
