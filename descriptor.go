package picovalid

import "github.com/picovalid/picovalid-go/argtype"

// Role distinguishes receiver parameters from ordinary ones. Receiver
// parameters carry the instance (or type object) a method is invoked on;
// they are bound when the calling convention supplies them but never flow
// through classification or transformation.
type Role int

const (
	RoleOrdinary Role = iota
	RoleReceiver
)

// Param describes one declared parameter of a registered method: its name,
// declared type (nil when undeclared), default value, and role. Parameter
// order in a MethodSpec is the declaration order.
type Param struct {
	Name       string
	Type       *argtype.Type
	Role       Role
	Default    any
	HasDefault bool
}

// Receiver declares the method's receiver parameter. It must be the first
// parameter when present.
func Receiver(name string) Param {
	return Param{Name: name, Role: RoleReceiver}
}

// Arg declares an ordinary parameter with the given declared type. Pass a
// nil type for a parameter with no declared type; it will never be
// validated.
func Arg(name string, t *argtype.Type) Param {
	return Param{Name: name, Type: t}
}

// ArgDefault declares an ordinary parameter with a default value applied
// when the caller supplies nothing for it.
func ArgDefault(name string, t *argtype.Type, def any) Param {
	return Param{Name: name, Type: t, Default: def, HasDefault: true}
}

// Convention tells the binder how the interception layer delivers the
// receiver for a method. It is resolved once at registration time so that
// call-time binding is deterministic.
type Convention int

const (
	// ConventionAuto lets the binder accept both interpretations: receiver
	// present as the first positional argument, or already consumed by the
	// dispatch layer. The interpretation consistent with registration wins.
	ConventionAuto Convention = iota
	// ConventionByReceiver requires the receiver as the first positional
	// argument (ordinary instance and class methods).
	ConventionByReceiver
	// ConventionDetached requires the positional arguments to carry no
	// receiver (static-method-style dispatch).
	ConventionDetached
)

func (c Convention) String() string {
	switch c {
	case ConventionByReceiver:
		return "receiver"
	case ConventionDetached:
		return "detached"
	default:
		return "auto"
	}
}

// MethodSpec is the registration-time declaration of a method that requires
// call-time argument validation.
type MethodSpec struct {
	// Target names the declaring type, as reported by call.Context.Target.
	Target string
	// Method is the method name.
	Method string
	// Convention selects the binding interpretation; ConventionAuto accepts
	// either.
	Convention Convention
	// Params lists the declared parameters in order. A receiver, if any,
	// must come first.
	Params []Param
}

// compiledMethod is the immutable, cached form of a registered method: the
// spec plus per-parameter shapes computed once. It is shared across calls
// and must not be mutated after construction.
type compiledMethod struct {
	spec        MethodSpec
	shapes      []argtype.Shape // parallel to spec.Params
	hasReceiver bool
	disabled    bool
}

func compileMethod(spec MethodSpec) (*compiledMethod, error) {
	if spec.Target == "" || spec.Method == "" {
		return nil, &SpecError{Target: spec.Target, Method: spec.Method, Reason: "target and method name are required"}
	}
	seen := make(map[string]struct{}, len(spec.Params))
	cm := &compiledMethod{spec: spec, shapes: make([]argtype.Shape, len(spec.Params))}
	for i, p := range spec.Params {
		if p.Name == "" {
			return nil, &SpecError{Target: spec.Target, Method: spec.Method, Reason: "parameter names are required"}
		}
		if _, dup := seen[p.Name]; dup {
			return nil, &SpecError{Target: spec.Target, Method: spec.Method, Reason: "duplicate parameter name " + p.Name}
		}
		seen[p.Name] = struct{}{}
		if p.Role == RoleReceiver {
			if i != 0 {
				return nil, &SpecError{Target: spec.Target, Method: spec.Method, Reason: "receiver must be the first parameter"}
			}
			if p.Type != nil {
				return nil, &SpecError{Target: spec.Target, Method: spec.Method, Reason: "receiver parameters carry no declared type"}
			}
			cm.hasReceiver = true
		}
		if !p.Type.Valid() {
			return nil, &SpecError{Target: spec.Target, Method: spec.Method, Reason: "malformed type descriptor for parameter " + p.Name}
		}
		cm.shapes[i] = argtype.Classify(p.Type)
	}
	if spec.Convention == ConventionByReceiver && !cm.hasReceiver {
		return nil, &SpecError{Target: spec.Target, Method: spec.Method, Reason: "receiver convention requires a receiver parameter"}
	}
	return cm, nil
}
