package call

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewContextAssignsCallID(t *testing.T) {
	a := NewContext("Svc", "Do", nil, nil)
	b := NewContext("Svc", "Do", nil, nil)
	if a.CallID() == "" {
		t.Fatal("expected a call id")
	}
	if a.CallID() == b.CallID() {
		t.Fatal("expected distinct call ids")
	}
}

func TestGoFutureSettles(t *testing.T) {
	f := Go(func() (any, error) { return 42, nil })
	v, err := f.Await(context.Background())
	if err != nil {
		t.Fatalf("Await error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
	// Awaiting again observes the same settled result.
	v, err = f.Await(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("second Await: got %v, %v", v, err)
	}
}

func TestGoFuturePropagatesError(t *testing.T) {
	boom := errors.New("boom")
	f := Go(func() (any, error) { return nil, boom })
	if _, err := f.Await(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestAwaitHonorsCancellation(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	f := Go(func() (any, error) { <-block; return nil, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestResolved(t *testing.T) {
	v, err := Resolved("done").Await(context.Background())
	if err != nil || v != "done" {
		t.Fatalf("got %v, %v", v, err)
	}
}
