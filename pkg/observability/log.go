package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// PipelineHooks, CacheHooks and ExecHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnStageStart(_ context.Context, stage string) {
	h.logger.Debug("stage start", "stage", stage)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("stage done", "stage", stage, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnStart(_ context.Context, argv []string) {
	h.logger.Debug("exec", "cmd", strings.Join(argv, " "))
}

func (h *LogHooks) OnExit(_ context.Context, argv []string, code int, d time.Duration, err error) {
	name := ""
	if len(argv) > 0 {
		name = argv[0]
	}
	h.logger.Debug("exit", "cmd", name, "code", code, "duration", d.Round(time.Millisecond))
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ExecHooks     = (*LogHooks)(nil)
)
