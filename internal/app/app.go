package app

import (
	"context"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopnow/internal/console"
	"github.com/xenking/shopnow/internal/domain/cart"
	"github.com/xenking/shopnow/internal/domain/catalog"
	"github.com/xenking/shopnow/internal/domain/query"
	"github.com/xenking/shopnow/internal/storefront"
	"github.com/xenking/shopnow/internal/store"
	"github.com/xenking/shopnow/internal/view"
	"github.com/xenking/shopnow/pkg/dispatch"
	"github.com/xenking/shopnow/pkg/health"
)

// Run creates all dependencies, runs the interactive session over stdin, and
// handles graceful shutdown. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("store_dir", cfg.StoreDir))

	// Persistent store.
	kv, err := store.NewFileStore(cfg.StoreDir)
	if err != nil {
		return errors.Wrap(err, "open store")
	}

	// Catalog: seed on first run, reseed when the stored payload is corrupt.
	seed, err := catalog.DefaultSeed()
	if err != nil {
		return errors.Wrap(err, "load embedded seed")
	}
	catalogRepo := catalog.NewStoreRepository(kv, cfg.CatalogKey)
	if err := catalogRepo.Seed(ctx, seed); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	if _, err := catalogRepo.List(ctx); err != nil {
		var corrupt *catalog.CorruptError
		if !errors.As(err, &corrupt) {
			return errors.Wrap(err, "load catalog")
		}
		lg.Warn("Catalog payload corrupt, reseeding",
			zap.String("key", corrupt.Key), zap.Error(corrupt.Err))
		if err := catalogRepo.Reseed(ctx, seed); err != nil {
			return errors.Wrap(err, "reseed catalog")
		}
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddCheck("store", 5*time.Second, health.StoreWritableCheck(kv))
	healthSvc.AddCheck("goroutines", time.Second, health.GoroutineCountCheck(cfg.Health.GoroutineThreshold))
	healthSvc.Start(ctx, cfg.Health.Interval)
	defer healthSvc.Stop()

	// Domain services over the console UI.
	ui := console.NewUI(os.Stdout)
	shop := storefront.New(
		catalogRepo,
		cart.NewLedger(kv, cfg.CartKey, catalogRepo),
		query.New(),
		view.NewReconciler(ui),
		ui,
		ui,
	)

	// Action pipeline.
	instrument, err := dispatch.Instrument(m.TracerProvider(), m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "create instrumentation")
	}
	disp := dispatch.New(
		dispatch.Recovery(),
		dispatch.ActionID(),
		dispatch.InjectLogger(zctx.From(ctx)),
		instrument,
		dispatch.LogActions(),
	)

	healthSvc.SetReady(true)

	session := console.NewSession(shop, disp, healthSvc, ui)
	lg.Info("Session ready")
	if err := session.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "session")
	}

	healthSvc.SetReady(false)
	lg.Info("Session closed")
	return nil
}
