package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the meter used for shop metrics
const MeterName = "github.com/salesmanager/backend"

// HTTPDurationBuckets are histogram boundaries in seconds for request latency
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ShopMetrics holds the business instruments of the storefront
type ShopMetrics struct {
	ordersPlaced        metric.Int64Counter
	orderTransitions    metric.Int64Counter
	customersRegistered metric.Int64Counter
	imageUploads        metric.Int64Counter
	captchaChecks       metric.Int64Counter
	searchQueries       metric.Int64Counter
	httpDuration        metric.Float64Histogram
	httpRequests        metric.Int64Counter
}

// NewShopMetrics creates the instruments on the given meter provider,
// falling back to the global provider when mp is nil.
func NewShopMetrics(mp metric.MeterProvider) (*ShopMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(MeterName)
	sm := &ShopMetrics{}

	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&sm.ordersPlaced, "salesmanager.orders.placed", "Orders placed"},
		{&sm.orderTransitions, "salesmanager.orders.transitions", "Order status transitions"},
		{&sm.customersRegistered, "salesmanager.customers.registered", "Customer registrations"},
		{&sm.imageUploads, "salesmanager.product_images.uploaded", "Product images uploaded"},
		{&sm.captchaChecks, "salesmanager.captcha.verifications", "reCAPTCHA verifications"},
		{&sm.searchQueries, "salesmanager.search.queries", "Catalog search queries"},
		{&sm.httpRequests, "http.server.requests", "HTTP requests served"},
	}
	for _, c := range counters {
		if *c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("1")); err != nil {
			return nil, err
		}
	}
	sm.httpDuration, err = m.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(HTTPDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}
	return sm, nil
}

// NopShopMetrics returns instruments bound to the no-op global provider
func NopShopMetrics() *ShopMetrics {
	sm, _ := NewShopMetrics(nil)
	return sm
}

// OrderPlaced counts a new order
func (m *ShopMetrics) OrderPlaced(ctx context.Context, store, currency string) {
	m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(AttrStoreCode.String(store), attribute.String("currency", currency)))
}

// OrderTransitioned counts an order status change
func (m *ShopMetrics) OrderTransitioned(ctx context.Context, store, from, to string) {
	m.orderTransitions.Add(ctx, 1, metric.WithAttributes(
		AttrStoreCode.String(store),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// CustomerRegistered counts a registration
func (m *ShopMetrics) CustomerRegistered(ctx context.Context, store string) {
	m.customersRegistered.Add(ctx, 1, metric.WithAttributes(AttrStoreCode.String(store)))
}

// ImageUploaded counts a stored product image
func (m *ShopMetrics) ImageUploaded(ctx context.Context, store string) {
	m.imageUploads.Add(ctx, 1, metric.WithAttributes(AttrStoreCode.String(store)))
}

// CaptchaVerified counts a reCAPTCHA verification outcome
func (m *ShopMetrics) CaptchaVerified(ctx context.Context, success bool) {
	m.captchaChecks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// SearchQueried counts a search or autocomplete query
func (m *ShopMetrics) SearchQueried(ctx context.Context, store, kind string) {
	m.searchQueries.Add(ctx, 1, metric.WithAttributes(AttrStoreCode.String(store), attribute.String("kind", kind)))
}

// HTTPServed records one served request
func (m *ShopMetrics) HTTPServed(ctx context.Context, method, route string, status int, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)
	m.httpRequests.Add(ctx, 1, attrs)
	m.httpDuration.Record(ctx, seconds, attrs)
}
