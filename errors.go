package picovalid

import "fmt"

// SpecError reports a malformed method registration. It is raised at
// registration time so that a bad declaration fails the process loudly
// instead of silently skipping validation at call time.
type SpecError struct {
	Target string
	Method string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid method spec %s.%s: %s", e.Target, e.Method, e.Reason)
}

// BindingError reports that raw call arguments could not be matched to the
// method's declared parameters under any applicable calling-convention
// interpretation. It indicates a programming or integration defect rather
// than bad input data, so it is never wrapped into a ValidationError.
type BindingError struct {
	Target string
	Method string
	Reason string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("cannot bind arguments for %s.%s: %s", e.Target, e.Method, e.Reason)
}

// ValidationError reports that a bound parameter's raw value failed the
// validation engine's checks. It carries the method name and the engine's
// diagnostic as its cause; the continuation is guaranteed not to have run.
type ValidationError struct {
	Method string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for method %q: %v", e.Method, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
