// Package tier runs a primary operation with a local fallback.
//
// The primary (the remote search backend) gets its own deadline. Any primary
// failure, including a timeout, hands the request to the fallback; the caller
// learns which tier answered but never sees the primary's error.
package tier

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/metrics"
)

var tracer = otel.Tracer("localdex/tier")

// Source names the tier that produced a result.
type Source string

// Sources.
const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
)

// Func is one tier of a two-tier operation.
type Func[T any] func(ctx context.Context) (T, error)

// Options configures Run.
type Options struct {
	// Operation labels spans, metrics and log lines (e.g. "search", "suggest").
	Operation string
	// PrimaryTimeout bounds the primary; zero means the parent deadline only.
	PrimaryTimeout time.Duration
	// Logger receives fallback warnings when the context carries none.
	Logger *zap.Logger
}

// Run calls primary and returns its value on success. Otherwise it calls
// fallback with the parent context. A nil primary goes straight to fallback.
// Only fallback errors are returned.
func Run[T any](ctx context.Context, primary, fallback Func[T], opts Options) (T, Source, error) {
	if primary != nil {
		v, err := runPrimary(ctx, primary, opts)
		if err == nil {
			metrics.RemoteRequestsTotal.WithLabelValues(opts.Operation, "ok").Inc()
			return v, SourcePrimary, nil
		}
		if errors.Is(err, domain.ErrRemoteDisabled) {
			metrics.RemoteRequestsTotal.WithLabelValues(opts.Operation, "disabled").Inc()
		} else {
			metrics.RemoteRequestsTotal.WithLabelValues(opts.Operation, "error").Inc()
			logger.OrFallback(ctx, opts.Logger).Warn("remote tier failed, using local fallback",
				zap.String("operation", opts.Operation),
				zap.Error(err),
			)
		}
	}

	ctx, span := tracer.Start(ctx, opts.Operation+".fallback")
	defer span.End()

	v, err := fallback(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fallback failed")
		return v, SourceFallback, err
	}
	span.SetStatus(codes.Ok, "")
	return v, SourceFallback, nil
}

func runPrimary[T any](ctx context.Context, primary Func[T], opts Options) (T, error) {
	ctx, span := tracer.Start(ctx, opts.Operation+".primary")
	defer span.End()

	if opts.PrimaryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.PrimaryTimeout)
		defer cancel()
	}

	v, err := primary(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("timeout", errors.Is(err, context.DeadlineExceeded)))
		span.SetStatus(codes.Error, "primary failed")
		var zero T
		return zero, err
	}
	span.SetStatus(codes.Ok, "")
	return v, nil
}
