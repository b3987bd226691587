package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartlabels/pkg/geom"
)

// LogHooks writes layout, cache and HTTP events to a logger at debug level.
// Stalled negotiations are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("events")}
}

// Register installs h for every event category.
func (h *LogHooks) Register() {
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnPrepare(_ context.Context, labels int) {
	h.logger.Debug("labels prepared", "labels", labels)
}

func (h *LogHooks) OnCompute(_ context.Context, labels, hidden int, d time.Duration) {
	h.logger.Debug("layout computed", "labels", labels, "hidden", hidden, "duration", d)
}

func (h *LogHooks) OnHide(_ context.Context, set, index int) {
	h.logger.Debug("label hidden", "set", set, "index", index)
}

func (h *LogHooks) OnAdjust(_ context.Context, chartID string, p geom.Padding) {
	h.logger.Debug("padding adjusted", "chart", chartID,
		"top", p.Top, "right", p.Right, "bottom", p.Bottom, "left", p.Left)
}

func (h *LogHooks) OnAdjustStalled(_ context.Context, chartID string, open time.Duration) {
	h.logger.Warn("margin negotiation stalled", "chart", chartID, "open", open)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Debug("request failed", "method", method, "path", path, "err", err)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
