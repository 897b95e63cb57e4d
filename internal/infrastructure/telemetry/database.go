package telemetry

import (
	"errors"
	"time"

	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slowQueryStartKey = "telemetry:query_start"

// InstrumentGorm registers the otelgorm plugin and a callback flagging slow
// statements on their span. It is a no-op when database tracing is off.
func InstrumentGorm(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(db.Dialector.Name())}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) { tx.InstanceSet(slowQueryStartKey, time.Now()) }
	after := func(tx *gorm.DB) { markSlowQuery(tx, cfg.DBSlowQueryThresh) }

	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", after),
		cb.Query().After("gorm:query").Register("telemetry:after_query", after),
		cb.Update().After("gorm:update").Register("telemetry:after_update", after),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after),
	)
	if err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh),
	)
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	if tx.Statement.Context == nil || threshold <= 0 {
		return
	}
	span := trace.SpanFromContext(tx.Statement.Context)
	if !span.IsRecording() {
		return
	}
	v, ok := tx.InstanceGet(slowQueryStartKey)
	if !ok {
		return
	}
	elapsed := time.Since(v.(time.Time))
	if elapsed < threshold {
		return
	}
	span.AddEvent("slow_query", trace.WithAttributes(
		attribute.String("db.sql.table", tx.Statement.Table),
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", threshold.Milliseconds()),
	))
}
