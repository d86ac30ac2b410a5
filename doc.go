// Package picovalid validates and coerces raw method arguments at call
// time. Methods registered as requiring validation have their loosely
// typed arguments — mappings, raw JSON, untyped lists — bound against
// their declared parameters and replaced with validated, strongly typed
// instances before the call is forwarded through its continuation.
// Unregistered methods pass through untouched.
//
// The pipeline per intercepted call: registry lookup (fast reject for
// unmarked methods), signature binding (tolerant of whether the calling
// convention delivers a leading receiver argument), per-parameter shape
// classification (computed once at registration), transformation via a
// pluggable validation engine, then continuation invocation.
//
// Quick start:
//
//	type User struct {
//	    ID   int    `json:"id" jsonschema:"minimum=1"`
//	    Name string `json:"name"`
//	}
//
//	reg := picovalid.NewRegistry()
//	reg.MustRegister(picovalid.MethodSpec{
//	    Target: "UserService",
//	    Method: "CreateUser",
//	    Params: []picovalid.Param{
//	        picovalid.Receiver("self"),
//	        picovalid.Arg("user", argtype.Struct[User]()),
//	    },
//	})
//
//	ic := picovalid.NewInterceptor(reg, schemaengine.New())
//
//	mc := call.NewContext("UserService", "CreateUser",
//	    []any{svc, map[string]any{"id": 1, "name": "valid"}}, nil)
//	res, err := ic.Invoke(ctx, mc, func(mc *call.Context) (any, error) {
//	    // mc.Args[1] is now a validated User instance.
//	    return svc.CreateUser(mc.Args[1].(User)), nil
//	})
//
// A validation failure surfaces as a *ValidationError carrying the method
// name and the engine's field diagnostics, and the continuation never
// runs. Arguments that cannot be matched to the declared parameters at all
// surface as a *BindingError, which signals an integration defect rather
// than bad input data.
package picovalid
