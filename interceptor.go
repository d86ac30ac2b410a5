package picovalid

import (
	"context"
	"log/slog"
	"time"

	"github.com/picovalid/picovalid-go/call"
	"github.com/picovalid/picovalid-go/internal/logctx"
)

// Interceptor orchestrates call-time argument validation: registry lookup,
// signature binding, transformation, and continuation invocation. It holds
// no per-call state, so one Interceptor is safe to use as a process-wide
// singleton invoked reentrantly and concurrently; all mutation happens on
// the caller-supplied call.Context.
type Interceptor struct {
	reg     *Registry
	engine  Engine
	log     *slog.Logger
	metrics *Metrics
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(i *Interceptor) { i.log = l }
}

// WithMetrics enables Prometheus instrumentation of intercepted calls.
func WithMetrics(m *Metrics) Option {
	return func(i *Interceptor) { i.metrics = m }
}

// NewInterceptor builds an Interceptor over the given registry and
// validation engine.
func NewInterceptor(reg *Registry, engine Engine, opts ...Option) *Interceptor {
	i := &Interceptor{reg: reg, engine: engine, log: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke is the interception entry point, called once per intercepted
// method call. Unmarked methods go straight to the continuation with the
// context unmodified. For marked methods, Invoke binds the raw arguments,
// validates and replaces the values of validatable parameters in place,
// and only then invokes the continuation. A binding failure surfaces as a
// *BindingError and a validation failure as a *ValidationError; in both
// cases the continuation does not run.
func (i *Interceptor) Invoke(ctx context.Context, mc *call.Context, next call.Continuation) (any, error) {
	cm, ok := i.reg.lookup(mc.Target, mc.Method)
	if !ok {
		i.metrics.observe(outcomePassthrough)
		return i.callNext(ctx, mc, next)
	}

	ctx = logctx.WithCallData(ctx, &logctx.CallData{
		Target: mc.Target,
		Method: mc.Method,
		CallID: mc.CallID(),
	})

	bound, err := bind(cm, mc.Args, mc.Kwargs)
	if err != nil {
		i.metrics.observe(outcomeBindingError)
		i.log.ErrorContext(ctx, "argument binding failed", "err", err)
		return nil, err
	}

	start := time.Now()
	validated, err := i.transform(ctx, cm, bound)
	if err != nil {
		i.metrics.observe(outcomeValidationError)
		i.log.WarnContext(ctx, "argument validation failed", "err", err)
		return nil, err
	}
	i.metrics.observeTransform(time.Since(start))
	i.metrics.observe(outcomeValidated)

	validated.apply(mc)
	i.log.DebugContext(ctx, "arguments validated")
	return i.callNext(ctx, mc, next)
}

// callNext forwards the call to the continuation and normalizes its
// result. A continuation returning a call.Future is awaited; anything else
// is returned as-is, so synchronous continuations never suspend. This is
// the interceptor's only suspension point, and a cancellation raised while
// awaiting propagates unmasked.
func (i *Interceptor) callNext(ctx context.Context, mc *call.Context, next call.Continuation) (any, error) {
	res, err := next(mc)
	if err != nil {
		return nil, err
	}
	if f, ok := res.(call.Future); ok {
		return f.Await(ctx)
	}
	return res, nil
}
