package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used by application services
const TracerName = "github.com/salesmanager/backend"

// Common span attribute keys
const (
	AttrStoreCode = attribute.Key("salesmanager.store")
	AttrLanguage  = attribute.Key("salesmanager.language")
	AttrEntityID  = attribute.Key("salesmanager.entity_id")
)

// StartSpan starts an internal span from the global tracer provider.
//
//	ctx, span := telemetry.StartSpan(ctx, "catalog.upload_image", telemetry.AttrStoreCode.String(code))
//	defer telemetry.EndSpan(span, &err)
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records *errp on the span, if any, and ends it
func EndSpan(span trace.Span, errp *error) {
	if errp != nil && *errp != nil {
		span.RecordError(*errp)
		span.SetStatus(codes.Error, (*errp).Error())
	}
	span.End()
}
