package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockProber struct {
	probeFn func(ctx context.Context) error
}

func (m *mockProber) Probe(ctx context.Context) error { return m.probeFn(ctx) }

// --- Tests ---

func TestCheck_Healthy(t *testing.T) {
	svc := New(&mockProber{probeFn: func(context.Context) error { return nil }})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["matcher"] != CheckOK {
		t.Errorf("expected matcher %q, got %q", CheckOK, r.Checks["matcher"])
	}
}

func TestCheck_MatcherDown(t *testing.T) {
	svc := New(&mockProber{probeFn: func(context.Context) error { return errors.New("conn refused") }})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["matcher"] != CheckError {
		t.Errorf("expected matcher %q, got %q", CheckError, r.Checks["matcher"])
	}
}

func TestCheck_ProbeTimeout(t *testing.T) {
	svc := New(&mockProber{probeFn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}).WithTimeout(10 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("check took %v, want it bounded by the probe timeout", elapsed)
	}
}
