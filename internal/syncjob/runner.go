package syncjob

import (
	"context"
	"fmt"
	"time"

	"github.com/gestorecommerce/catalog-backend/internal/catalog"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

const defaultInterval = 6 * time.Hour

// RunnerParams configure the periodic adoption runner.
type RunnerParams struct {
	Logger   *logger.Logger
	Catalog  catalog.Service
	Lock     Lock
	Interval time.Duration
}

// Runner re-adopts the storefront catalog on a fixed cadence so the mirror
// converges even when nobody triggers a manual scan. Only one instance runs
// a cycle at a time.
type Runner struct {
	logg     *logger.Logger
	catalog  catalog.Service
	lock     Lock
	interval time.Duration
}

// NewRunner builds the periodic sync runner.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		logg:     params.Logger,
		catalog:  params.Catalog,
		lock:     params.Lock,
		interval: interval,
	}, nil
}

// Run starts the sync loop until the context is canceled. The first cycle
// runs immediately.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.runCycle(ctx); err != nil {
		r.logg.Error(ctx, "scheduled adoption failed", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logg.Info(ctx, "sync runner context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := r.runCycle(ctx); err != nil {
				r.logg.Error(ctx, "scheduled adoption failed", err)
			}
		}
	}
}

func (r *Runner) runCycle(ctx context.Context) error {
	locked, err := r.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		r.logg.Info(ctx, "another sync instance is running; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := r.lock.Release(ctx); relErr != nil {
			r.logg.Error(ctx, "failed to release sync lock", relErr)
		}
	}()

	r.logg.Info(ctx, "scheduled adoption starting")
	report, err := r.catalog.AdoptStorefrontProducts(ctx)
	if err != nil {
		return fmt.Errorf("adoption: %w", err)
	}
	r.logg.Info(ctx, fmt.Sprintf(
		"scheduled adoption complete: %d products, %d pages, %d without sku, %d failed batches",
		report.Processed, report.Pages, report.MissingSKU, report.FailedBatches))
	return nil
}
