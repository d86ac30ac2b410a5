package picovalid

import (
	"context"

	"github.com/picovalid/picovalid-go/argtype"
)

// transform replaces every bound, validatable parameter value with its
// validated instance. It works on a scratch copy: the first failing
// parameter aborts the pass and the original BoundArgs — and therefore the
// call context — are left exactly as they were, so a failure never forwards
// partial mutation.
func (i *Interceptor) transform(ctx context.Context, cm *compiledMethod, bound *BoundArgs) (*BoundArgs, error) {
	out := bound.clone()
	for idx, p := range cm.spec.Params {
		if p.Role == RoleReceiver || cm.shapes[idx] == argtype.NotValidatable {
			continue
		}
		raw, ok := out.Value(p.Name)
		if !ok {
			continue
		}
		// An absent optional never reaches the validation engine.
		if raw == nil && cm.shapes[idx] == argtype.OptionalWrapping {
			continue
		}
		v, err := i.engine.Validator(p.Type)
		if err != nil {
			return nil, &ValidationError{Method: cm.spec.Method, Err: err}
		}
		validated, err := v.Validate(ctx, raw)
		if err != nil {
			return nil, &ValidationError{Method: cm.spec.Method, Err: err}
		}
		out.set(p.Name, validated)
	}
	return out, nil
}
