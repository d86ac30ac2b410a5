package picovalid

import (
	"context"

	"github.com/picovalid/picovalid-go/argtype"
)

// Engine is the structured-validation collaborator. Given a declared type
// descriptor — wrapper shape included — it produces a Validator scoped to
// exactly that type. Engines are encouraged to cache validators per
// descriptor; the interceptor asks for one on every validatable parameter
// of every call.
//
// The schemaengine package provides the default implementation.
type Engine interface {
	Validator(t *argtype.Type) (Validator, error)
}

// Validator accepts a raw, loosely-typed value and returns the validated,
// strongly-typed replacement, or a diagnostic error enumerating which
// fields or values failed and why. Implementations must support plain
// structured types, optional wrapping (nil passes through), homogeneous
// lists (element order preserved, failures carry the element index), and
// unions with first-match selection.
type Validator interface {
	Validate(ctx context.Context, raw any) (any, error)
}
