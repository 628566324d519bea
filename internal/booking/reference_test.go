package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewReferenceFormat(t *testing.T) {
	ref, err := NewReference(context.Background(), func(ctx context.Context, r string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("NewReference: %v", err)
	}
	if len(ref) != 8 {
		t.Fatalf("reference %q has length %d, want 8", ref, len(ref))
	}
	for _, c := range ref {
		if !strings.ContainsRune(referenceAlphabet, c) {
			t.Fatalf("reference %q contains %q outside [A-Z0-9]", ref, c)
		}
	}
}

func TestNewReferenceRetriesOnCollision(t *testing.T) {
	taken := map[string]bool{}
	calls := 0
	exists := func(ctx context.Context, r string) (bool, error) {
		calls++
		// Report the first draw as taken to force one retry.
		if calls == 1 {
			taken[r] = true
			return true, nil
		}
		return taken[r], nil
	}
	ref, err := NewReference(context.Background(), exists)
	if err != nil {
		t.Fatalf("NewReference: %v", err)
	}
	if taken[ref] {
		t.Fatalf("returned a reference reported as in use: %q", ref)
	}
	if calls < 2 {
		t.Fatalf("expected a retry after the collision, got %d calls", calls)
	}
}

func TestNewReferenceManyDistinct(t *testing.T) {
	seen := make(map[string]bool, 10000)
	exists := func(ctx context.Context, r string) (bool, error) {
		return seen[r], nil
	}
	for i := 0; i < 10000; i++ {
		ref, err := NewReference(context.Background(), exists)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if seen[ref] {
			t.Fatalf("iteration %d: duplicate reference %q", i, ref)
		}
		seen[ref] = true
	}
}

func TestNewReferenceExhaustsRetries(t *testing.T) {
	exists := func(ctx context.Context, r string) (bool, error) {
		return true, nil // everything is taken
	}
	_, err := NewReference(context.Background(), exists)
	if !errors.Is(err, ErrReferenceExhausted) {
		t.Fatalf("got %v, want ErrReferenceExhausted", err)
	}
}

func TestNewReferencePropagatesStoreError(t *testing.T) {
	boom := errors.New("connection lost")
	exists := func(ctx context.Context, r string) (bool, error) {
		return false, boom
	}
	_, err := NewReference(context.Background(), exists)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped store error", err)
	}
	if errors.Is(err, ErrReferenceExhausted) {
		t.Fatalf("store error must not be reported as exhaustion")
	}
}
