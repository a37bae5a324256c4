// Package dispatch is the operation façade over the repository: every
// repository operation enters through a Service method that validates the
// namespace, routes to the stores, the schema resolver, the query engine, or
// a registered provider, and records metrics and a trace span on the way out.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cimrepo/internal/dispatch/metrics"
	"cimrepo/internal/provider"
	"cimrepo/internal/repository"
	"cimrepo/pkg/cimerrors"
)

const tracerName = "cimrepo/dispatch"

// Service dispatches repository operations.
type Service struct {
	store    *repository.Repository
	registry *provider.Registry
	fallback provider.InstanceWriteProvider
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New builds a dispatch service. registry and m may be nil; a nil registry
// means every instance write goes to the default store-backed provider.
func New(store *repository.Repository, registry *provider.Registry, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		registry: registry,
		fallback: provider.NewStoreInstanceProvider(store, logger),
		logger:   logger,
		metrics:  m,
	}
}

// begin opens a span and starts the operation clock. The returned func
// records the outcome; call it exactly once with the operation's error.
func (s *Service) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cim."+op, trace.WithAttributes(attrs...))
	start := time.Now()
	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = cimerrors.CodeOf(err).String()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.DebugContext(ctx, "operation failed",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
		s.metrics.ObserveOperation(op, status, time.Since(start))
		span.End()
	}
}

// AddNamespace creates a namespace.
func (s *Service) AddNamespace(ctx context.Context, namespace string) (err error) {
	_, done := s.begin(ctx, "AddNamespace", attribute.String("namespace", namespace))
	defer func() { done(err) }()
	return s.store.AddNamespace(namespace)
}

// RemoveNamespace deletes an empty namespace.
func (s *Service) RemoveNamespace(ctx context.Context, namespace string) (err error) {
	_, done := s.begin(ctx, "RemoveNamespace", attribute.String("namespace", namespace))
	defer func() { done(err) }()
	return s.store.RemoveNamespace(namespace)
}

// Namespaces lists namespace names in creation order.
func (s *Service) Namespaces(ctx context.Context) []string {
	_, done := s.begin(ctx, "Namespaces")
	defer done(nil)
	return s.store.Namespaces()
}
