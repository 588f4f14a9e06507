package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// KV is the minimal store surface a writability probe needs.
type KV interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GoroutineCountCheck returns a CheckFunc that reports unhealthy when the
// number of goroutines exceeds the given threshold. This is useful to detect
// goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		count := runtime.NumGoroutine()
		if count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// GCMaxPauseCheck returns a CheckFunc that reports unhealthy when the maximum
// GC pause (stop-the-world) duration exceeds the given threshold. This is
// useful to detect memory pressure or excessively large heaps causing long GC
// pauses.
func GCMaxPauseCheck(threshold time.Duration) CheckFunc {
	return func(_ context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)

		for _, pause := range stats.Pause {
			if pause > threshold {
				return errors.Errorf("GC pause %s exceeds threshold %s", pause, threshold)
			}
		}
		return nil
	}
}

// StoreWritableCheck returns a CheckFunc that writes and deletes a probe key
// to verify the persistent store still accepts writes. A full disk or revoked
// permissions surface here instead of on the next cart mutation.
func StoreWritableCheck(kv KV) CheckFunc {
	key := "shopnow_health_probe_" + uuid.NewString()
	return func(ctx context.Context) error {
		if err := kv.Set(ctx, key, []byte(`{"probe":true}`)); err != nil {
			return errors.Wrap(err, "probe write")
		}
		if err := kv.Delete(ctx, key); err != nil {
			return errors.Wrap(err, "probe delete")
		}
		return nil
	}
}
