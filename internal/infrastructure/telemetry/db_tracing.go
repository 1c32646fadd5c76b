package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/supermercado/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartTimeKey = "otel:query_start_time"

// DBTracingPlugin registers otelgorm and marks slow queries on the span
// that is current when the statement finishes.
type DBTracingPlugin struct {
	cfg      config.TelemetryConfig
	provider trace.TracerProvider
	logger   *zap.Logger
}

// NewDBTracingPlugin creates the plugin. A nil provider means the global one.
func NewDBTracingPlugin(cfg config.TelemetryConfig, provider trace.TracerProvider, logger *zap.Logger) *DBTracingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{cfg: cfg, provider: provider, logger: logger}
}

type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Register installs the instrumentation on db. It is a no-op unless
// database tracing is enabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.cfg.DBTraceEnabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !p.cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.provider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// otelgorm restores the parent context in its after hooks, so the slow
	// query check runs ahead of them while the query span is still current.
	cb := db.Callback()
	hooks := []struct {
		op            string
		before, after callbackRegistrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create").Before("otel:after:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query").Before("otel:after:select")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update").Before("otel:after:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete").Before("otel:after:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row").Before("otel:after:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw").Before("otel:after:raw")},
	}
	for _, h := range hooks {
		if err := h.before.Register("otel_timing:before_"+h.op, markQueryStart); err != nil {
			return err
		}
		if err := h.after.Register("otel_slow_query:"+h.op, p.afterQuery); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", p.cfg.DBSlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	db.InstanceSet(queryStartTimeKey, time.Now())
}

func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	value, ok := db.InstanceGet(queryStartTimeKey)
	if !ok {
		return
	}
	startTime, ok := value.(time.Time)
	if !ok {
		return
	}
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	elapsed := time.Since(startTime)
	if elapsed <= p.cfg.DBSlowQueryThresh {
		return
	}

	p.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Bool("failed", db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)),
		zap.String("trace_id", TraceID(ctx)),
	)

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	span.AddEvent("slow_query_warning", trace.WithAttributes(
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", p.cfg.DBSlowQueryThresh.Milliseconds()),
	))
}
