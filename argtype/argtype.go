// Package argtype describes the declared types of method parameters as a
// small closed set of tagged descriptors, and classifies them by whether
// they require structured validation.
//
// A Type is either a structured type (a Go struct validated field-by-field
// by a validation engine), a scalar (passed through untouched), or one of
// three parametric wrappers: Optional, List, and Union. Classification is a
// pure recursive function over this closed set; there is no open-ended
// reflection walk at call time.
package argtype

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind identifies the variant of a Type descriptor.
type Kind int

const (
	// KindInvalid is the zero Kind. A Type with KindInvalid is rejected at
	// registration time; it never reaches classification silently.
	KindInvalid Kind = iota
	// KindScalar is a plain Go value type that needs no structured validation.
	KindScalar
	// KindStruct is a validatable structured type.
	KindStruct
	// KindOptional wraps an inner type that may be absent (nil).
	KindOptional
	// KindList is a homogeneous sequence of an inner type.
	KindList
	// KindUnion is a set of alternative types; the first structurally
	// matching alternative wins at validation time.
	KindUnion
)

// Type is an immutable descriptor of a declared parameter type. Build one
// with Struct, Scalar, Optional, ListOf, or OneOf and share it freely;
// descriptors are never mutated after construction.
type Type struct {
	kind   Kind
	goType reflect.Type // set for KindStruct and KindScalar
	elem   *Type        // set for KindOptional and KindList
	alts   []*Type      // set for KindUnion
}

// Struct describes a validatable structured type T. T must be a struct
// type; anything else panics, since descriptors are built at program
// initialization where a bad declaration should fail fast.
func Struct[T any]() *Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("argtype: Struct requires a struct type, got %s", rt))
	}
	return &Type{kind: KindStruct, goType: rt}
}

// Scalar describes a plain Go type T that never requires structured
// validation (ints, strings, booleans, and so on).
func Scalar[T any]() *Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return &Type{kind: KindScalar, goType: rt}
}

// Optional wraps inner as a type whose value may be absent. A nil raw value
// passes through unvalidated.
func Optional(inner *Type) *Type {
	return &Type{kind: KindOptional, elem: inner}
}

// ListOf describes a homogeneous sequence of elem.
func ListOf(elem *Type) *Type {
	return &Type{kind: KindList, elem: elem}
}

// OneOf describes a union of alternative types, matched in declaration
// order at validation time.
func OneOf(alts ...*Type) *Type {
	return &Type{kind: KindUnion, alts: alts}
}

// Kind reports the variant of t. A nil Type reports KindInvalid.
func (t *Type) Kind() Kind {
	if t == nil {
		return KindInvalid
	}
	return t.kind
}

// GoType returns the underlying Go type for KindStruct and KindScalar
// descriptors, and nil otherwise.
func (t *Type) GoType() reflect.Type {
	if t == nil {
		return nil
	}
	return t.goType
}

// Elem returns the inner type of an Optional or List descriptor.
func (t *Type) Elem() *Type {
	if t == nil {
		return nil
	}
	return t.elem
}

// Alternatives returns the alternatives of a Union descriptor.
func (t *Type) Alternatives() []*Type {
	if t == nil {
		return nil
	}
	return t.alts
}

func (t *Type) String() string {
	if t == nil {
		return "<undeclared>"
	}
	switch t.kind {
	case KindScalar, KindStruct:
		return t.goType.String()
	case KindOptional:
		return "optional[" + t.elem.String() + "]"
	case KindList:
		return "list[" + t.elem.String() + "]"
	case KindUnion:
		parts := make([]string, len(t.alts))
		for i, a := range t.alts {
			parts[i] = a.String()
		}
		return "union[" + strings.Join(parts, "|") + "]"
	default:
		return "<invalid>"
	}
}

// Valid reports whether t and all nested descriptors are well formed.
// Registration uses this to reject malformed declarations loudly instead of
// letting them degrade into a silent validation skip.
func (t *Type) Valid() bool {
	if t == nil {
		// An undeclared type is well formed; it just classifies as
		// NotValidatable.
		return true
	}
	switch t.kind {
	case KindScalar, KindStruct:
		return t.goType != nil
	case KindOptional, KindList:
		return t.elem != nil && t.elem.Valid()
	case KindUnion:
		if len(t.alts) == 0 {
			return false
		}
		for _, a := range t.alts {
			if a == nil || !a.Valid() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Shape classifies a declared type by whether, and how, it requires
// structured validation.
type Shape int

const (
	// NotValidatable means the parameter value passes through untouched.
	NotValidatable Shape = iota
	// PlainValidatable means the declared type is itself a structured type.
	PlainValidatable
	// OptionalWrapping means an optional wrapper around a validatable type.
	OptionalWrapping
	// ListWrapping means a sequence of a validatable type.
	ListWrapping
	// UnionWrapping means at least one union alternative is validatable.
	UnionWrapping
)

func (s Shape) String() string {
	switch s {
	case PlainValidatable:
		return "plain"
	case OptionalWrapping:
		return "optional"
	case ListWrapping:
		return "list"
	case UnionWrapping:
		return "union"
	default:
		return "none"
	}
}

// Classify determines the Shape of a declared type. It is pure and total:
// a nil or malformed descriptor classifies as NotValidatable rather than
// failing. Wrappers classify as validatable when any nested type argument
// does, recursively. For unions, Classify only flags that validation is
// required; choosing among alternatives is the validation engine's job.
func Classify(t *Type) Shape {
	if t == nil {
		return NotValidatable
	}
	switch t.kind {
	case KindStruct:
		return PlainValidatable
	case KindOptional:
		if Classify(t.elem) != NotValidatable {
			return OptionalWrapping
		}
		return NotValidatable
	case KindList:
		if Classify(t.elem) != NotValidatable {
			return ListWrapping
		}
		return NotValidatable
	case KindUnion:
		for _, a := range t.alts {
			if Classify(a) != NotValidatable {
				return UnionWrapping
			}
		}
		return NotValidatable
	default:
		return NotValidatable
	}
}
