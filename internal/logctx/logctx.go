// Package logctx enriches slog records with metadata about the intercepted
// call carried on the context.
package logctx

import (
	"context"
	"log/slog"
)

// Handler wraps a slog.Handler and appends a "call" attribute group when
// the context carries call data.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if cd, ok := ctx.Value(callDataKey{}).(*CallData); ok {
		r.AddAttrs(slog.Group("call",
			slog.String("target", cd.Target),
			slog.String("method", cd.Method),
			slog.String("id", cd.CallID),
		))
	}
	return h.Handler.Handle(ctx, r)
}

type callDataKey struct{}

// CallData identifies one intercepted call.
type CallData struct {
	Target string
	Method string
	CallID string
}

// WithCallData attaches call metadata to the context for log enrichment.
func WithCallData(ctx context.Context, data *CallData) context.Context {
	return context.WithValue(ctx, callDataKey{}, data)
}
