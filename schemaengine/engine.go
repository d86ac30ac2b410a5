// Package schemaengine is the default structured-validation engine. It
// reflects a JSON Schema from each structured Go type once, compiles the
// schema's constraints into field checks, and validates raw values —
// mappings, raw JSON, or already-typed instances — against them, producing
// strongly-typed replacements or field-level diagnostics.
package schemaengine

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
	picovalid "github.com/picovalid/picovalid-go"
	"github.com/picovalid/picovalid-go/argtype"
)

// Option configures an Engine.
type Option func(*Engine)

// AllowUnknownFields controls whether raw mappings may carry fields the
// target type does not declare. Strict (false) by default: unknown fields
// fail decoding.
func AllowUnknownFields(allow bool) Option {
	return func(e *Engine) { e.allowUnknown = allow }
}

// Engine builds and caches validators per type descriptor. It is safe for
// concurrent use; validators are immutable once built.
type Engine struct {
	allowUnknown bool

	mu         sync.RWMutex
	validators map[*argtype.Type]picovalid.Validator
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{validators: make(map[*argtype.Type]picovalid.Validator)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validator returns a validator scoped to the exact declared type,
// wrapper shape included. Validators are cached per descriptor.
func (e *Engine) Validator(t *argtype.Type) (picovalid.Validator, error) {
	if t == nil {
		return nil, fmt.Errorf("schemaengine: nil type descriptor")
	}
	e.mu.RLock()
	v, ok := e.validators[t]
	e.mu.RUnlock()
	if ok {
		return v, nil
	}
	v, err := e.build(t)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.validators[t] = v
	e.mu.Unlock()
	return v, nil
}

func (e *Engine) build(t *argtype.Type) (picovalid.Validator, error) {
	switch t.Kind() {
	case argtype.KindStruct:
		return e.buildStruct(t.GoType())
	case argtype.KindScalar:
		return &scalarValidator{rt: t.GoType()}, nil
	case argtype.KindOptional:
		inner, err := e.build(t.Elem())
		if err != nil {
			return nil, err
		}
		return &optionalValidator{inner: inner}, nil
	case argtype.KindList:
		elem, err := e.build(t.Elem())
		if err != nil {
			return nil, err
		}
		return &listValidator{elem: elem, elemType: staticGoType(t.Elem())}, nil
	case argtype.KindUnion:
		alts := t.Alternatives()
		u := &unionValidator{alts: make([]picovalid.Validator, len(alts)), names: make([]string, len(alts))}
		for i, alt := range alts {
			av, err := e.build(alt)
			if err != nil {
				return nil, err
			}
			u.alts[i] = av
			u.names[i] = alt.String()
		}
		return u, nil
	default:
		return nil, fmt.Errorf("schemaengine: unsupported type descriptor %s", t)
	}
}

// buildStruct reflects the JSON Schema for rt and compiles its constraints
// into per-field checks. All schema work happens here, once per type; the
// per-call path only decodes and evaluates the compiled checks.
func (e *Engine) buildStruct(rt reflect.Type) (picovalid.Validator, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: e.allowUnknown,
	}
	s := r.Reflect(reflect.New(rt).Interface())
	v := &structValidator{rt: rt, allowUnknown: e.allowUnknown}
	if s == nil || s.Type != "object" {
		return v, nil
	}
	v.required = append(v.required, s.Required...)
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			check, err := compileFieldCheck(rt, el.Key, el.Value)
			if err != nil {
				return nil, err
			}
			if check != nil {
				v.checks = append(v.checks, *check)
			}
		}
	}
	return v, nil
}

// staticGoType returns the single concrete Go type a descriptor's
// validated values take, or nil when there is none (unions, optionals).
// Lists over such descriptors fall back to []any.
func staticGoType(t *argtype.Type) reflect.Type {
	switch t.Kind() {
	case argtype.KindStruct, argtype.KindScalar:
		return t.GoType()
	case argtype.KindList:
		if et := staticGoType(t.Elem()); et != nil {
			return reflect.SliceOf(et)
		}
		return nil
	default:
		return nil
	}
}
