package schemaengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
	picovalid "github.com/picovalid/picovalid-go"
)

// fieldCheck is one compiled constraint set for a struct field, evaluated
// against the decoded value.
type fieldCheck struct {
	name  string
	index []int

	min, max         *float64
	exclMin, exclMax *float64
	minLen, maxLen   *uint64
	pattern          *regexp.Regexp
	enum             []any
}

func compileFieldCheck(rt reflect.Type, jsonName string, s *jsonschema.Schema) (*fieldCheck, error) {
	if s == nil {
		return nil, nil
	}
	field, ok := fieldByJSONName(rt, jsonName)
	if !ok {
		return nil, nil
	}
	c := &fieldCheck{name: jsonName, index: field.Index}
	found := false
	if f, ok, err := numberValue(s.Minimum); err != nil {
		return nil, err
	} else if ok {
		c.min, found = &f, true
	}
	if f, ok, err := numberValue(s.Maximum); err != nil {
		return nil, err
	} else if ok {
		c.max, found = &f, true
	}
	if f, ok, err := numberValue(s.ExclusiveMinimum); err != nil {
		return nil, err
	} else if ok {
		c.exclMin, found = &f, true
	}
	if f, ok, err := numberValue(s.ExclusiveMaximum); err != nil {
		return nil, err
	} else if ok {
		c.exclMax, found = &f, true
	}
	if s.MinLength != nil {
		c.minLen, found = s.MinLength, true
	}
	if s.MaxLength != nil {
		c.maxLen, found = s.MaxLength, true
	}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("schemaengine: bad pattern for field %s: %w", jsonName, err)
		}
		c.pattern, found = re, true
	}
	if len(s.Enum) > 0 {
		c.enum, found = s.Enum, true
	}
	if !found {
		return nil, nil
	}
	return c, nil
}

func numberValue(n json.Number) (float64, bool, error) {
	if n == "" {
		return 0, false, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false, fmt.Errorf("schemaengine: bad numeric bound %q: %w", n, err)
	}
	return f, true, nil
}

func fieldByJSONName(rt reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		tagName := strings.Split(tag, ",")[0]
		if tagName == "-" {
			continue
		}
		if tagName == "" {
			tagName = f.Name
		}
		if tagName == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func (c *fieldCheck) eval(v reflect.Value) *Issue {
	fv := v.FieldByIndex(c.index)
	if c.min != nil || c.max != nil || c.exclMin != nil || c.exclMax != nil {
		if n, ok := numeric(fv); ok {
			switch {
			case c.min != nil && n < *c.min:
				return &Issue{Path: c.name, Constraint: "minimum", Message: fmt.Sprintf("must be >= %v, got %v", *c.min, n)}
			case c.max != nil && n > *c.max:
				return &Issue{Path: c.name, Constraint: "maximum", Message: fmt.Sprintf("must be <= %v, got %v", *c.max, n)}
			case c.exclMin != nil && n <= *c.exclMin:
				return &Issue{Path: c.name, Constraint: "exclusiveMinimum", Message: fmt.Sprintf("must be > %v, got %v", *c.exclMin, n)}
			case c.exclMax != nil && n >= *c.exclMax:
				return &Issue{Path: c.name, Constraint: "exclusiveMaximum", Message: fmt.Sprintf("must be < %v, got %v", *c.exclMax, n)}
			}
		}
	}
	if fv.Kind() == reflect.String {
		s := fv.String()
		if c.minLen != nil && uint64(utf8.RuneCountInString(s)) < *c.minLen {
			return &Issue{Path: c.name, Constraint: "minLength", Message: fmt.Sprintf("must be at least %d characters", *c.minLen)}
		}
		if c.maxLen != nil && uint64(utf8.RuneCountInString(s)) > *c.maxLen {
			return &Issue{Path: c.name, Constraint: "maxLength", Message: fmt.Sprintf("must be at most %d characters", *c.maxLen)}
		}
		if c.pattern != nil && !c.pattern.MatchString(s) {
			return &Issue{Path: c.name, Constraint: "pattern", Message: fmt.Sprintf("must match %s", c.pattern)}
		}
	}
	if len(c.enum) > 0 {
		got := fmt.Sprint(fv.Interface())
		for _, e := range c.enum {
			if fmt.Sprint(e) == got {
				return nil
			}
		}
		return &Issue{Path: c.name, Constraint: "enum", Message: fmt.Sprintf("value %v not in enum", fv.Interface())}
	}
	return nil
}

func numeric(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// structValidator validates a raw value against one structured type:
// strict JSON decoding plus the compiled schema constraints. An
// already-typed instance is accepted and re-checked without a decode pass.
type structValidator struct {
	rt           reflect.Type
	allowUnknown bool
	required     []string
	checks       []fieldCheck
}

func (v *structValidator) Validate(_ context.Context, raw any) (any, error) {
	if raw == nil {
		return nil, Issues{{Constraint: "type", Message: fmt.Sprintf("expected %s, got null", v.rt)}}
	}
	if instance, ok := v.typedInstance(raw); ok {
		if issue := v.check(instance); issue != nil {
			return nil, Issues{*issue}
		}
		return instance.Interface(), nil
	}

	b, err := normalizeJSON(raw)
	if err != nil {
		return nil, Issues{{Constraint: "type", Message: err.Error()}}
	}

	var asMap map[string]any
	if err := json.Unmarshal(b, &asMap); err != nil {
		return nil, Issues{{Constraint: "type", Message: fmt.Sprintf("expected object for %s: %v", v.rt, err)}}
	}
	var issues Issues
	for _, name := range v.required {
		if _, ok := asMap[name]; !ok {
			issues = append(issues, Issue{Path: name, Constraint: "required", Message: "required field missing"})
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	out := reflect.New(v.rt)
	dec := json.NewDecoder(bytes.NewReader(b))
	if !v.allowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(out.Interface()); err != nil {
		return nil, Issues{{Constraint: "type", Message: err.Error()}}
	}
	if issue := v.check(out.Elem()); issue != nil {
		return nil, Issues{*issue}
	}
	return out.Elem().Interface(), nil
}

// typedInstance unwraps raw when it already carries the target struct
// type, directly or behind one pointer.
func (v *structValidator) typedInstance(raw any) (reflect.Value, bool) {
	rv := reflect.ValueOf(raw)
	if rv.Type() == v.rt {
		return rv, true
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Type().Elem() == v.rt {
		return rv.Elem(), true
	}
	return reflect.Value{}, false
}

func (v *structValidator) check(instance reflect.Value) *Issue {
	for i := range v.checks {
		if issue := v.checks[i].eval(instance); issue != nil {
			return issue
		}
	}
	return nil
}

func normalizeJSON(raw any) ([]byte, error) {
	switch rv := raw.(type) {
	case json.RawMessage:
		return rv, nil
	case []byte:
		return rv, nil
	default:
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("value is not representable as JSON: %v", err)
		}
		return b, nil
	}
}

// scalarValidator accepts values already of, or losslessly convertible to,
// a plain Go type. It exists so union alternatives can name scalars.
type scalarValidator struct {
	rt reflect.Type
}

func (v *scalarValidator) Validate(_ context.Context, raw any) (any, error) {
	if raw == nil {
		return nil, Issues{{Constraint: "type", Message: fmt.Sprintf("expected %s, got null", v.rt)}}
	}
	rv := reflect.ValueOf(raw)
	if rv.Type() == v.rt {
		return raw, nil
	}
	switch v.rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// JSON numbers arrive as float64; accept them when integral.
		if n, ok := numeric(rv); ok && n == float64(int64(n)) {
			return rv.Convert(v.rt).Interface(), nil
		}
	case reflect.Float32, reflect.Float64:
		if _, ok := numeric(rv); ok {
			return rv.Convert(v.rt).Interface(), nil
		}
	case reflect.String:
		if rv.Kind() == reflect.String {
			return rv.Convert(v.rt).Interface(), nil
		}
	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Convert(v.rt).Interface(), nil
		}
	}
	return nil, Issues{{Constraint: "type", Message: fmt.Sprintf("expected %s, got %T", v.rt, raw)}}
}

// optionalValidator passes nil through untouched and defers everything
// else to the inner validator.
type optionalValidator struct {
	inner picovalid.Validator
}

func (v *optionalValidator) Validate(ctx context.Context, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	return v.inner.Validate(ctx, raw)
}

// listValidator validates each element independently, in order. The
// replacement is a typed slice when the element type has one concrete Go
// type, otherwise []any. The first failing element aborts the whole value
// with its index on the diagnostic path.
type listValidator struct {
	elem     picovalid.Validator
	elemType reflect.Type // nil when elements have no single concrete type
}

func (v *listValidator) Validate(ctx context.Context, raw any) (any, error) {
	if raw == nil {
		return nil, Issues{{Constraint: "type", Message: "expected list, got null"}}
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, Issues{{Constraint: "type", Message: fmt.Sprintf("expected list, got %T", raw)}}
	}
	n := rv.Len()
	var typed reflect.Value
	var anyOut []any
	if v.elemType != nil {
		typed = reflect.MakeSlice(reflect.SliceOf(v.elemType), 0, n)
	} else {
		anyOut = make([]any, 0, n)
	}
	for i := 0; i < n; i++ {
		validated, err := v.elem.Validate(ctx, rv.Index(i).Interface())
		if err != nil {
			if issues, ok := err.(Issues); ok {
				return nil, issues.prefix(strconv.Itoa(i))
			}
			return nil, Issues{{Path: strconv.Itoa(i), Constraint: "element", Message: err.Error()}}
		}
		if v.elemType != nil {
			typed = reflect.Append(typed, reflect.ValueOf(validated))
		} else {
			anyOut = append(anyOut, validated)
		}
	}
	if v.elemType != nil {
		return typed.Interface(), nil
	}
	return anyOut, nil
}

// unionValidator tries each alternative in declaration order and keeps the
// first that matches.
type unionValidator struct {
	alts  []picovalid.Validator
	names []string
}

func (v *unionValidator) Validate(ctx context.Context, raw any) (any, error) {
	var causes []string
	for i, alt := range v.alts {
		validated, err := alt.Validate(ctx, raw)
		if err == nil {
			return validated, nil
		}
		causes = append(causes, v.names[i]+": "+err.Error())
	}
	return nil, Issues{{
		Constraint: "union",
		Message:    "no alternative matched (" + strings.Join(causes, "; ") + ")",
	}}
}
