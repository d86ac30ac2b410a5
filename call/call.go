// Package call defines the contract between an interception/dispatch
// framework and the validation layer: the mutable Context describing one
// in-flight method call, the Continuation that advances the call chain, and
// the Future shape used when a continuation's result is not immediately
// available.
package call

import (
	"context"

	"github.com/google/uuid"
)

// Context is the mutable record of one in-flight method call. It is
// exclusively owned by that call: the framework must not share or reuse a
// Context across concurrent invocations. The validation layer mutates Args
// and Kwargs in place before handing the Context to the continuation.
type Context struct {
	// Target names the declaring type of the intercepted method.
	Target string
	// Method is the intercepted method's name.
	Method string
	// Args is the positional argument sequence. Depending on the calling
	// convention it may or may not carry a leading receiver value.
	Args []any
	// Kwargs holds keyword-supplied arguments by parameter name.
	Kwargs map[string]any

	callID string
}

// NewContext builds a Context for one call and assigns it a unique call id
// used for log correlation. The args slice and kwargs map are retained, not
// copied; the caller hands over ownership for the duration of the call.
func NewContext(target, method string, args []any, kwargs map[string]any) *Context {
	return &Context{
		Target: target,
		Method: method,
		Args:   args,
		Kwargs: kwargs,
		callID: uuid.NewString(),
	}
}

// CallID returns the unique identifier assigned at construction. A Context
// built without NewContext has an empty id.
func (c *Context) CallID() string { return c.callID }

// Continuation advances the call chain with the (possibly mutated) Context.
// The validation layer invokes it at most once per call, and exactly once
// unless binding or validation fails.
type Continuation func(*Context) (any, error)

// Future is a continuation result that must be awaited. A continuation may
// return a Future instead of a direct value; the invoker detects this and
// suspends only then, so synchronous continuations pay no suspension cost.
type Future interface {
	// Await blocks until the result is available or ctx is done. A ctx
	// cancellation is returned unmasked.
	Await(ctx context.Context) (any, error)
}

type goFuture struct {
	done chan struct{}
	val  any
	err  error
}

// Go runs fn on its own goroutine and returns a Future for its result.
// It is a convenience for continuations that want to hand back work still
// in flight. Await may be called any number of times; every call observes
// the same settled result.
func Go(fn func() (any, error)) Future {
	f := &goFuture{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns an already-settled Future carrying v. Useful in tests
// and for continuations that decide late that no suspension is needed.
func Resolved(v any) Future {
	f := &goFuture{done: make(chan struct{}), val: v}
	close(f.done)
	return f
}

func (f *goFuture) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
