package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.False(t, p.ZapCore().Enabled(zap.ErrorLevel))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestStartSpan_EndSpan(t *testing.T) {
	rec := useRecorder(t)

	_, span := StartSpan(context.Background(), "catalog.save", AttrStoreCode.String("DEFAULT"))
	err := errors.New("boom")
	EndSpan(span, &err)

	_, ok := StartSpan(context.Background(), "catalog.get")
	var none error
	EndSpan(ok, &none)

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "catalog.save", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, codes.Unset, ended[1].Status().Code)
}

func TestShopMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewShopMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.OrderPlaced(ctx, "DEFAULT", "USD")
	m.OrderPlaced(ctx, "DEFAULT", "USD")
	m.OrderTransitioned(ctx, "DEFAULT", "ORDERED", "PROCESSED")
	m.HTTPServed(ctx, "GET", "/api/v1/products", 200, 0.02)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		byName[metric.Name] = metric
	}
	placed, ok := byName["salesmanager.orders.placed"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, placed.DataPoints, 1)
	assert.Equal(t, int64(2), placed.DataPoints[0].Value)

	_, ok = byName["http.server.request.duration"].Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestNopShopMetrics(t *testing.T) {
	m := NopShopMetrics()
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.CaptchaVerified(context.Background(), true)
		m.SearchQueried(context.Background(), "DEFAULT", "autocomplete")
	})
}

func TestInstrumentGorm(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	t.Run("disabled is a no-op", func(t *testing.T) {
		require.NoError(t, InstrumentGorm(db, config.TelemetryConfig{}, zap.NewNop()))
	})

	t.Run("traces statements", func(t *testing.T) {
		rec := useRecorder(t)
		cfg := config.TelemetryConfig{Enabled: true, DBTraceEnabled: true, DBSlowQueryThresh: time.Nanosecond}
		require.NoError(t, InstrumentGorm(db, cfg, zap.NewNop()))

		type sample struct{ ID int }
		require.NoError(t, db.AutoMigrate(&sample{}))
		var out []sample
		require.NoError(t, db.WithContext(context.Background()).Find(&out).Error)

		assert.NotEmpty(t, rec.Ended())
	})
}
