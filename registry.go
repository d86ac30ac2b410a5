package picovalid

import "sync"

type methodKey struct {
	target string
	method string
}

// Registry is the explicit marker store: it maps (declaring type, method
// name) to a compiled validation spec built once at registration time.
// Methods absent from the registry are unmarked and pass through the
// interceptor untouched.
//
// Registry is safe for concurrent use. Compiled specs are immutable, so
// lookups hand them out without copying.
type Registry struct {
	mu      sync.RWMutex
	methods map[methodKey]*compiledMethod
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[methodKey]*compiledMethod)}
}

// Register validates and compiles spec, then stores it. Registering the
// same (target, method) twice is an error; specs are meant to be declared
// once at program initialization.
func (r *Registry) Register(spec MethodSpec) error {
	cm, err := compileMethod(spec)
	if err != nil {
		return err
	}
	key := methodKey{target: spec.Target, method: spec.Method}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.methods[key]; exists {
		return &SpecError{Target: spec.Target, Method: spec.Method, Reason: "already registered"}
	}
	r.methods[key] = cm
	return nil
}

// MustRegister is Register, panicking on error. Intended for package-level
// registration where a malformed spec should abort startup.
func (r *Registry) MustRegister(spec MethodSpec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Mark registers spec and returns fn unchanged. It is the decorator-style
// entry point: the returned callable is behaviorally identical to the input
// when invoked directly, and the registration is what the interceptor
// consults. Mark panics on a malformed spec.
func Mark[F any](r *Registry, spec MethodSpec, fn F) F {
	r.MustRegister(spec)
	return fn
}

// Marked reports whether (target, method) has been registered for
// validation and is not disabled.
func (r *Registry) Marked(target, method string) bool {
	_, ok := r.lookup(target, method)
	return ok
}

// Override adjusts a registered method's policy after the fact, typically
// from a deployment manifest. Nil fields leave the current value in place.
type Override struct {
	Convention *Convention
	Disabled   *bool
}

// Apply applies an override to a registered method. Overriding an
// unregistered method is an error. The compiled spec is replaced
// atomically; in-flight calls keep the spec they already looked up.
func (r *Registry) Apply(target, method string, o Override) error {
	key := methodKey{target: target, method: method}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.methods[key]
	if !ok {
		return &SpecError{Target: target, Method: method, Reason: "not registered"}
	}
	spec := cur.spec
	if o.Convention != nil {
		spec.Convention = *o.Convention
	}
	next, err := compileMethod(spec)
	if err != nil {
		return err
	}
	next.disabled = cur.disabled
	if o.Disabled != nil {
		next.disabled = *o.Disabled
	}
	r.methods[key] = next
	return nil
}

// lookup returns the compiled spec for a marked, enabled method. Disabled
// methods behave exactly like unmarked ones.
func (r *Registry) lookup(target, method string) (*compiledMethod, bool) {
	r.mu.RLock()
	cm, ok := r.methods[methodKey{target: target, method: method}]
	r.mu.RUnlock()
	if !ok || cm.disabled {
		return nil, false
	}
	return cm, true
}
