package view

import (
	"context"
	"sync"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopnow/internal/domain/cart"
)

// Region names a renderable surface area.
type Region string

const (
	RegionBadge    Region = "badge"
	RegionMiniCart Region = "mini-cart"
	RegionCartPage Region = "cart-page"
	RegionSummary  Region = "order-summary"
)

// Reconciler re-renders every mounted region from a cart snapshot. It holds
// no derived state of its own: applying the same snapshot twice renders the
// same output twice. Render failures are logged and never propagate; a
// broken surface must not break a cart mutation.
type Reconciler struct {
	surface Surface

	mu      sync.Mutex
	mounted map[Region]bool
}

// NewReconciler returns a Reconciler over the given surface with the badge
// and mini-cart mounted, matching the regions present on every page.
func NewReconciler(surface Surface) *Reconciler {
	return &Reconciler{
		surface: surface,
		mounted: map[Region]bool{
			RegionBadge:    true,
			RegionMiniCart: true,
		},
	}
}

// Mount marks a region as present; it will be rendered on the next Apply.
func (r *Reconciler) Mount(regions ...Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, region := range regions {
		r.mounted[region] = true
	}
}

// Unmount marks a region as absent.
func (r *Reconciler) Unmount(regions ...Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, region := range regions {
		delete(r.mounted, region)
	}
}

// Mounted reports whether a region is currently mounted.
func (r *Reconciler) Mounted(region Region) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounted[region]
}

// Apply renders all mounted regions from the snapshot. Called once at
// startup and on every CartChanged signal.
func (r *Reconciler) Apply(ctx context.Context, c cart.Cart) {
	r.mu.Lock()
	mounted := make([]Region, 0, len(r.mounted))
	for region := range r.mounted {
		mounted = append(mounted, region)
	}
	r.mu.Unlock()

	for _, region := range mounted {
		var err error
		switch region {
		case RegionBadge:
			err = r.surface.RenderBadge(ctx, BuildBadge(c))
		case RegionMiniCart:
			err = r.surface.RenderMiniCart(ctx, BuildMiniCart(c))
		case RegionCartPage:
			err = r.surface.RenderCartPage(ctx, BuildCartPage(c))
		case RegionSummary:
			err = r.surface.RenderSummary(ctx, BuildSummary(c))
		}
		if err != nil {
			zctx.From(ctx).Warn("Region render failed",
				zap.String("region", string(region)), zap.Error(err))
		}
	}
}
