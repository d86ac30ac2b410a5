// Package picovalidtest provides test doubles for exercising the
// validation interceptor: a continuation that records its invocations and
// a scriptable validation engine.
package picovalidtest

import (
	"context"
	"sync"

	picovalid "github.com/picovalid/picovalid-go"
	"github.com/picovalid/picovalid-go/argtype"
	"github.com/picovalid/picovalid-go/call"
)

// RecordingContinuation captures every call.Context it is invoked with and
// returns a configured result. Safe for concurrent use.
type RecordingContinuation struct {
	mu     sync.Mutex
	calls  []*call.Context
	result any
	err    error
}

// NewRecordingContinuation builds a continuation double returning result
// and err on every invocation.
func NewRecordingContinuation(result any, err error) *RecordingContinuation {
	return &RecordingContinuation{result: result, err: err}
}

// Continuation returns the call.Continuation to hand to the interceptor.
func (r *RecordingContinuation) Continuation() call.Continuation {
	return func(mc *call.Context) (any, error) {
		r.mu.Lock()
		r.calls = append(r.calls, mc)
		r.mu.Unlock()
		return r.result, r.err
	}
}

// Count reports how many times the continuation ran.
func (r *RecordingContinuation) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Last returns the most recent context the continuation saw, or nil.
func (r *RecordingContinuation) Last() *call.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

// ScriptedEngine is a picovalid.Engine whose validators apply a scripted
// function keyed by the descriptor's string form. Descriptors without a
// script use the identity function. It also counts Validate invocations,
// which tests use to assert that absent optionals never reach the engine.
type ScriptedEngine struct {
	mu        sync.Mutex
	scripts   map[string]func(raw any) (any, error)
	validated int
}

// NewScriptedEngine builds an empty ScriptedEngine.
func NewScriptedEngine() *ScriptedEngine {
	return &ScriptedEngine{scripts: make(map[string]func(raw any) (any, error))}
}

// Script installs fn for every descriptor whose String() matches key.
func (e *ScriptedEngine) Script(key string, fn func(raw any) (any, error)) {
	e.mu.Lock()
	e.scripts[key] = fn
	e.mu.Unlock()
}

// ValidateCount reports how many Validate calls the engine served.
func (e *ScriptedEngine) ValidateCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validated
}

// Validator implements picovalid.Engine.
func (e *ScriptedEngine) Validator(t *argtype.Type) (picovalid.Validator, error) {
	return &scriptedValidator{engine: e, key: t.String()}, nil
}

type scriptedValidator struct {
	engine *ScriptedEngine
	key    string
}

func (v *scriptedValidator) Validate(_ context.Context, raw any) (any, error) {
	v.engine.mu.Lock()
	v.engine.validated++
	fn := v.engine.scripts[v.key]
	v.engine.mu.Unlock()
	if fn == nil {
		return raw, nil
	}
	return fn(raw)
}
