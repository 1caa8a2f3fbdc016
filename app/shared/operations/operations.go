// Package operations wraps service operations with telemetry, panic recovery
// and transaction scoping.
package operations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/app/shared/results"
	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Result is the envelope every operation returns: a payload or a domain error.
type Result[S any] = results.OperationResult[S, error]

// Runner carries the dependencies shared by every operation of one service.
type Runner struct {
	Service string
	Logger  *slog.Logger
	Metrics observability.OperationMetrics
	Tracer  trace.Tracer
	DB      *bun.DB
}

// errRollback aborts a transaction whose operation returned a domain failure.
var errRollback = errors.New("operation failed, rolling back")

// Op is the signature of a telemetry-wrapped operation.
type Op[S any] func(ctx context.Context) (Result[S], error)

// TxOp is the signature of an operation that runs against a transaction.
type TxOp[S any] func(ctx context.Context, db bun.IDB) (Result[S], error)

// Success wraps a payload.
func Success[S any](s S) Result[S] {
	return results.SuccessResult[S, error](s)
}

// Classify turns err into a failure result when it is a domain error and
// returns it as an infrastructure error otherwise.
func Classify[S any](err error) (Result[S], error) {
	if sportserr.IsDomain(err) {
		return results.FailureResult[S, error](err), nil
	}
	return Result[S]{}, err
}

// Unwrap collapses a result into the (value, error) pair callers expect.
func Unwrap[S any](result Result[S], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, fmt.Errorf("operation returned no result")
	}
	return *result.Success, nil
}

// WithTelemetry wraps op with a span, operation metrics, logging and panic
// recovery.
func WithTelemetry[S any](
	r *Runner,
	ctx context.Context,
	operationName string,
	identifier string,
	op Op[S],
) (result Result[S], err error) {
	var span trace.Span
	if r.Tracer != nil {
		ctx, span = r.Tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	metrics := r.Metrics
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	logger := r.logger()

	metrics.RecordOperationAttempt(ctx, operationName, r.Service)

	startTime := time.Now()
	defer func() {
		metrics.RecordOperationDuration(ctx, operationName, r.Service, time.Since(startTime))
	}()

	logger.DebugContext(ctx, "Operation triggered",
		observability.CorrelationID(ctx),
		observability.String("operation", operationName),
	)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, rec)
			logger.ErrorContext(ctx, "Critical panic recovered",
				observability.CorrelationID(ctx),
				observability.String("identifier", identifier),
				observability.Error(err),
			)
			metrics.RecordOperationFailure(ctx, operationName, r.Service)
			span.RecordError(err)
			result = Result[S]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		logger.ErrorContext(ctx, "Operation failed with error",
			observability.CorrelationID(ctx),
			observability.String("operation", operationName),
			observability.String("identifier", identifier),
			observability.Error(wrappedErr),
		)
		metrics.RecordOperationFailure(ctx, operationName, r.Service)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		logger.WarnContext(ctx, "Operation returned failure result",
			observability.CorrelationID(ctx),
			observability.String("operation", operationName),
			observability.String("identifier", identifier),
			observability.Error(*result.Failure),
		)
	} else {
		logger.InfoContext(ctx, "Operation completed successfully",
			observability.CorrelationID(ctx),
			observability.String("operation", operationName),
			observability.String("identifier", identifier),
		)
	}

	metrics.RecordOperationSuccess(ctx, operationName, r.Service)
	return result, nil
}

// RunInTx runs fn inside a transaction. Both an infrastructure error and a
// failure result roll the transaction back.
func RunInTx[S any](r *Runner, ctx context.Context, fn TxOp[S]) (Result[S], error) {
	if r.DB == nil {
		return fn(ctx, nil)
	}

	var result Result[S]
	err := r.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr == nil && result.IsFailure() {
			return errRollback
		}
		return txErr
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}
	if err != nil {
		return Result[S]{}, err
	}
	return result, nil
}

// Read runs fn without a transaction against the runner's database.
func Read[S any](r *Runner, ctx context.Context, fn TxOp[S]) (Result[S], error) {
	if r.DB == nil {
		return fn(ctx, nil)
	}
	return fn(ctx, r.DB)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
