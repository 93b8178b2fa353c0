package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [ComputeHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to [log.Default] when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetComputeHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnComputeStart(_ context.Context, kind string, length int) {
	h.logger.Debug("compute start", "kind", kind, "n", length)
}

func (h *LogHooks) OnComputeComplete(_ context.Context, kind string, length, distance int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("compute failed", "kind", kind, "n", length, "duration", duration, "err", err)
		return
	}
	h.logger.Debug("compute done", "kind", kind, "n", length, "distance", distance, "duration", duration)
}

func (h *LogHooks) OnBatchStart(_ context.Context, pairs, workers int) {
	h.logger.Debug("batch start", "pairs", pairs, "workers", workers)
}

func (h *LogHooks) OnBatchComplete(_ context.Context, pairs, failed int, duration time.Duration) {
	h.logger.Debug("batch done", "pairs", pairs, "failed", failed, "duration", duration)
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

func (h *LogHooks) OnRequest(_ context.Context, method, path, requestID string) {
	h.logger.Debug("request", "method", method, "path", path, "id", requestID)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, statusCode int, duration time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", statusCode, "duration", duration)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Debug("request error", "method", method, "path", path, "err", err)
}

var (
	_ ComputeHooks = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
)
