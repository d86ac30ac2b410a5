package picovalid

import (
	"fmt"

	"github.com/picovalid/picovalid-go/call"
)

type valueSource int

const (
	sourcePositional valueSource = iota
	sourceKeyword
	sourceDefault
)

type boundValue struct {
	value  any
	source valueSource
}

// BoundArgs is the ordered name→value mapping produced by binding raw call
// arguments against a method's declared parameters, with defaults applied.
// Every supplied or defaulted parameter has an entry; a receiver parameter
// has one only when the calling convention delivered a receiver value.
type BoundArgs struct {
	names  []string
	values map[string]boundValue
}

// Names returns the bound parameter names in declaration order.
func (b *BoundArgs) Names() []string { return b.names }

// Value returns the bound value for a parameter name.
func (b *BoundArgs) Value(name string) (any, bool) {
	v, ok := b.values[name]
	return v.value, ok
}

func (b *BoundArgs) set(name string, value any) {
	v, ok := b.values[name]
	if !ok {
		return
	}
	v.value = value
	b.values[name] = v
}

func (b *BoundArgs) clone() *BoundArgs {
	out := &BoundArgs{
		names:  b.names,
		values: make(map[string]boundValue, len(b.values)),
	}
	for k, v := range b.values {
		out.values[k] = v
	}
	return out
}

// apply writes the bound values back onto the call context, preserving each
// argument's original delivery: positionally supplied values (receiver
// included) rebuild Args in declaration order, keyword-supplied and
// defaulted values go to Kwargs.
func (b *BoundArgs) apply(mc *call.Context) {
	args := make([]any, 0, len(b.names))
	kwargs := make(map[string]any)
	for _, name := range b.names {
		v := b.values[name]
		if v.source == sourcePositional {
			args = append(args, v.value)
		} else {
			kwargs[name] = v.value
		}
	}
	mc.Args = args
	mc.Kwargs = kwargs
}

// bindAttempt is one calling-convention interpretation of the raw
// arguments.
type bindAttempt struct {
	withReceiver bool
	dropLeading  bool // discard the first positional argument before binding
}

// bind matches raw positional and keyword arguments against the compiled
// parameter list. The interpretations tried depend on the convention
// resolved at registration time; ConventionAuto accepts both receiver
// placements so the binder stays call-convention-agnostic. The first
// interpretation that fits wins. Binding never reorders or changes the
// arity of the parameters it recognizes.
func bind(cm *compiledMethod, args []any, kwargs map[string]any) (*BoundArgs, error) {
	var attempts []bindAttempt
	switch cm.spec.Convention {
	case ConventionByReceiver:
		attempts = []bindAttempt{{withReceiver: true}}
	case ConventionDetached:
		// The dispatch layer consumed the receiver already; a declared
		// receiver parameter simply gets no entry.
		attempts = []bindAttempt{{}}
	default:
		// Try both receiver placements, full interpretation first. For a
		// method declaring a receiver the retry binds without it, covering
		// dispatch layers that consumed the receiver already. For a
		// receiver-less method the retry drops the first positional,
		// absorbing the receiver value class- and static-method-style
		// dispatch still delivers. Neither retry changes how the remaining
		// arguments map to parameters, so over- and duplicate supply fail
		// under every interpretation.
		if cm.hasReceiver {
			attempts = []bindAttempt{{withReceiver: true}, {}}
		} else {
			attempts = []bindAttempt{{}, {dropLeading: true}}
		}
	}

	var reasons []string
	for _, at := range attempts {
		positional := args
		if at.dropLeading {
			if len(positional) == 0 {
				continue
			}
			positional = positional[1:]
		}
		bound, reason := bindOnce(cm, positional, kwargs, at.withReceiver)
		if reason == "" {
			return bound, nil
		}
		reasons = append(reasons, reason)
	}
	reason := "no arguments to bind"
	if len(reasons) > 0 {
		reason = reasons[0]
		for _, r := range reasons[1:] {
			reason += "; retry: " + r
		}
	}
	return nil, &BindingError{Target: cm.spec.Target, Method: cm.spec.Method, Reason: reason}
}

// bindOnce binds under a single interpretation. It returns a non-empty
// reason string on an arity or name mismatch.
func bindOnce(cm *compiledMethod, positional []any, kwargs map[string]any, withReceiver bool) (*BoundArgs, string) {
	params := cm.spec.Params
	bound := &BoundArgs{
		names:  make([]string, 0, len(params)),
		values: make(map[string]boundValue, len(params)),
	}
	pi := 0
	for _, p := range params {
		if p.Role == RoleReceiver {
			if !withReceiver {
				// Receiver already consumed elsewhere; it gets no entry.
				continue
			}
			if pi >= len(positional) {
				return nil, "missing receiver argument"
			}
			if _, fromKeyword := kwargs[p.Name]; fromKeyword {
				return nil, fmt.Sprintf("multiple values for parameter %q", p.Name)
			}
			bound.names = append(bound.names, p.Name)
			bound.values[p.Name] = boundValue{value: positional[pi], source: sourcePositional}
			pi++
			continue
		}
		kw, fromKeyword := kwargs[p.Name]
		switch {
		case pi < len(positional):
			if fromKeyword {
				return nil, fmt.Sprintf("multiple values for parameter %q", p.Name)
			}
			bound.names = append(bound.names, p.Name)
			bound.values[p.Name] = boundValue{value: positional[pi], source: sourcePositional}
			pi++
		case fromKeyword:
			bound.names = append(bound.names, p.Name)
			bound.values[p.Name] = boundValue{value: kw, source: sourceKeyword}
		case p.HasDefault:
			bound.names = append(bound.names, p.Name)
			bound.values[p.Name] = boundValue{value: p.Default, source: sourceDefault}
		default:
			return nil, fmt.Sprintf("missing required parameter %q", p.Name)
		}
	}
	if pi < len(positional) {
		return nil, fmt.Sprintf("too many positional arguments: got %d, expected at most %d", len(positional), pi)
	}
	for name := range kwargs {
		if _, ok := bound.values[name]; !ok {
			return nil, fmt.Sprintf("unknown keyword argument %q", name)
		}
	}
	return bound, ""
}
