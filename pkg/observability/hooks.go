// Package observability lets a binary watch the layout engine, the artifact
// cache and the HTTP server without those packages depending on a metrics
// backend.
//
// Each event category has an interface, a no-op implementation and a
// process-wide registration. Binaries register hooks once at startup and
// libraries emit through the accessors:
//
//	observability.SetLayoutHooks(observability.NewLogHooks(logger))
//
//	observability.Layout().OnHide(ctx, set, index)
//
// [LogHooks] writes every event to a charmbracelet logger at debug level.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/chartlabels/pkg/geom"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// LayoutHooks receives events from the label layout engine.
type LayoutHooks interface {
	// OnPrepare fires when a label collection is rebuilt from the chart.
	OnPrepare(ctx context.Context, labels int)
	// OnCompute fires after boxes are recomputed and overlaps resolved.
	OnCompute(ctx context.Context, labels, hidden int, duration time.Duration)
	OnHide(ctx context.Context, set, index int)
	// OnAdjust fires when margin negotiation grows the chart padding.
	OnAdjust(ctx context.Context, chartID string, padding geom.Padding)
	// OnAdjustStalled fires when a negotiation round stays open too long.
	OnAdjustStalled(ctx context.Context, chartID string, open time.Duration)
}

// CacheHooks receives events from the artifact cache. keyType is the key
// prefix, such as "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks ignores every layout event. Embed it to implement a subset.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnPrepare(context.Context, int)                         {}
func (NoopLayoutHooks) OnCompute(context.Context, int, int, time.Duration)     {}
func (NoopLayoutHooks) OnHide(context.Context, int, int)                       {}
func (NoopLayoutHooks) OnAdjust(context.Context, string, geom.Padding)         {}
func (NoopLayoutHooks) OnAdjustStalled(context.Context, string, time.Duration) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered hook implementation.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{cur: def, def: def} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(v T) {
	s.mu.Lock()
	s.cur = v
	s.mu.Unlock()
}

func (s *slot[T]) reset() { s.set(s.def) }

var (
	layoutSlot = newSlot[LayoutHooks](NoopLayoutHooks{})
	cacheSlot  = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot   = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetLayoutHooks registers h for layout events. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		layoutSlot.set(h)
	}
}

// SetCacheHooks registers h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks registers h for HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

func Layout() LayoutHooks { return layoutSlot.get() }
func Cache() CacheHooks   { return cacheSlot.get() }
func HTTP() HTTPHooks     { return httpSlot.get() }

// Reset restores the no-op hooks.
func Reset() {
	layoutSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
