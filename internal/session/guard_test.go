package session

import (
	"errors"
	"testing"
)

func TestGuardSecondBeginIsBusy(t *testing.T) {
	g := NewGuard()

	id, err := g.TryBegin()
	if err != nil {
		t.Fatalf("TryBegin() error = %v", err)
	}
	if id == "" {
		t.Fatalf("TryBegin() returned empty turn id")
	}

	if _, err := g.TryBegin(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second TryBegin() error = %v, want ErrBusy", err)
	}

	g.End(id)
	if _, err := g.TryBegin(); err != nil {
		t.Fatalf("TryBegin() after End error = %v", err)
	}
}

func TestGuardEndIgnoresStaleTurn(t *testing.T) {
	g := NewGuard()
	id, _ := g.TryBegin()

	g.End("not-the-current-turn")
	if !g.Busy() {
		t.Fatalf("Busy() = false after stale End, want true")
	}

	g.End(id)
	if g.Busy() {
		t.Fatalf("Busy() = true after real End, want false")
	}
}

func TestGuardCountsTurns(t *testing.T) {
	g := NewGuard()
	for i := 0; i < 3; i++ {
		id, err := g.TryBegin()
		if err != nil {
			t.Fatalf("TryBegin() error = %v", err)
		}
		g.End(id)
	}
	if got := g.Turns(); got != 3 {
		t.Fatalf("Turns() = %d, want 3", got)
	}
}
