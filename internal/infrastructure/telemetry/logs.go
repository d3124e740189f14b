package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider owns the OTLP logs pipeline that zap records are bridged into
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
}

// NewLoggerProvider exports log records over OTLP/gRPC when cfg.LogsEnabled is set
func NewLoggerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{logger: logger}

	if !cfg.LogsEnabled {
		logger.Info("OTEL logs disabled, zap output stays local")
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.provider)

	logger.Info("OpenTelemetry LoggerProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
	)
	return lp, nil
}

// Enabled reports whether log records are exported
func (lp *LoggerProvider) Enabled() bool {
	return lp.provider != nil
}

// Core returns a zap core that forwards entries at or above level to the
// OTLP pipeline. Combine it with the local core via zapcore.NewTee.
func (lp *LoggerProvider) Core(name string, level zapcore.LevelEnabler) zapcore.Core {
	if lp.provider == nil {
		return zapcore.NewNopCore()
	}
	return &levelFilterCore{
		Core:  otelzap.NewCore(name, otelzap.WithLoggerProvider(lp.provider)),
		level: level,
	}
}

// Attach tees l into the OTLP pipeline; with logs disabled l is returned as is
func (lp *LoggerProvider) Attach(l *zap.Logger, name string, level zapcore.LevelEnabler) *zap.Logger {
	if lp.provider == nil {
		return l
	}
	bridge := lp.Core(name, level)
	return l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, bridge)
	}))
}

// Shutdown flushes pending log records
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := lp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}

// levelFilterCore drops entries below level; the otelzap core has no minimum of its own
type levelFilterCore struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (c *levelFilterCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelFilterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}
