package picovalid

import (
	"errors"
	"testing"

	"github.com/picovalid/picovalid-go/argtype"
)

func TestRegisterAndMarked(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(receiverSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !reg.Marked("Svc", "Do") {
		t.Fatal("expected Svc.Do to be marked")
	}
	if reg.Marked("Svc", "Other") || reg.Marked("Other", "Do") {
		t.Fatal("unregistered methods must not be marked")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(receiverSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := reg.Register(receiverSpec())
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %v", err)
	}
}

func TestRegisterRejectsMalformedSpecs(t *testing.T) {
	cases := []struct {
		name string
		spec MethodSpec
	}{
		{
			name: "missing names",
			spec: MethodSpec{Params: []Param{Arg("x", nil)}},
		},
		{
			name: "receiver not first",
			spec: MethodSpec{Target: "S", Method: "M", Params: []Param{Arg("x", nil), Receiver("self")}},
		},
		{
			name: "duplicate parameter",
			spec: MethodSpec{Target: "S", Method: "M", Params: []Param{Arg("x", nil), Arg("x", nil)}},
		},
		{
			name: "zero-kind type",
			spec: MethodSpec{Target: "S", Method: "M", Params: []Param{Arg("x", &argtype.Type{})}},
		},
		{
			name: "receiver convention without receiver",
			spec: MethodSpec{Target: "S", Method: "M", Convention: ConventionByReceiver, Params: []Param{Arg("x", nil)}},
		},
	}
	reg := NewRegistry()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := reg.Register(tc.spec)
			var se *SpecError
			if !errors.As(err, &se) {
				t.Fatalf("expected SpecError, got %v", err)
			}
		})
	}
}

func TestMarkReturnsFunctionUnchanged(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	fn := func(n int) int { calls++; return n * 2 }

	marked := Mark(reg, MethodSpec{
		Target: "Calc",
		Method: "Double",
		Params: []Param{Arg("n", argtype.Scalar[int]())},
	}, fn)

	if got := marked(21); got != 42 || calls != 1 {
		t.Fatalf("marked function behavior changed: got %d, calls %d", got, calls)
	}
	if !reg.Marked("Calc", "Double") {
		t.Fatal("Mark must register the method")
	}
}

func TestOverrideDisable(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(receiverSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	disabled := true
	if err := reg.Apply("Svc", "Do", Override{Disabled: &disabled}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if reg.Marked("Svc", "Do") {
		t.Fatal("disabled method must behave as unmarked")
	}
	disabled = false
	if err := reg.Apply("Svc", "Do", Override{Disabled: &disabled}); err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	if !reg.Marked("Svc", "Do") {
		t.Fatal("re-enabled method must be marked again")
	}
}

func TestOverrideConventionAndUnknownMethod(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(receiverSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	conv := ConventionByReceiver
	if err := reg.Apply("Svc", "Do", Override{Convention: &conv}); err != nil {
		t.Fatalf("apply convention: %v", err)
	}
	cm, ok := reg.lookup("Svc", "Do")
	if !ok || cm.spec.Convention != ConventionByReceiver {
		t.Fatalf("convention override not applied: %+v", cm)
	}

	if err := reg.Apply("Svc", "Missing", Override{}); err == nil {
		t.Fatal("expected error for unregistered method")
	}
}
