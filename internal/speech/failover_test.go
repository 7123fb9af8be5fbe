package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/omkarw/bestbuddy/internal/langid"
)

type stubSynth struct {
	name  string
	fail  bool
	calls int
}

func (s *stubSynth) Name() string { return s.name }

func (s *stubSynth) Synthesize(_ context.Context, text string, _ langid.Lang) ([]byte, string, error) {
	s.calls++
	if s.fail {
		return nil, "", errors.New(s.name + " down")
	}
	return []byte(text), "audio/wav", nil
}

func TestFailoverSticksToFallbackAfterPrimaryFailure(t *testing.T) {
	primary := &stubSynth{name: "espeak", fail: true}
	fallback := &stubSynth{name: "http"}
	s := NewFailoverSynthesizer(primary, fallback)
	ctx := context.Background()

	if _, _, err := s.Synthesize(ctx, "one", langid.LangEnglish); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if _, _, err := s.Synthesize(ctx, "two", langid.LangEnglish); err != nil {
		t.Fatalf("Synthesize() on fallback error = %v", err)
	}

	if primary.calls != 1 {
		t.Fatalf("primary calls = %d, want 1 (fallback sticky)", primary.calls)
	}
	if fallback.calls != 2 {
		t.Fatalf("fallback calls = %d, want 2", fallback.calls)
	}
}

func TestFailoverReturnsToPrimaryWhenFallbackDies(t *testing.T) {
	primary := &stubSynth{name: "espeak", fail: true}
	fallback := &stubSynth{name: "http"}
	s := NewFailoverSynthesizer(primary, fallback)
	ctx := context.Background()

	if _, _, err := s.Synthesize(ctx, "one", langid.LangEnglish); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	primary.fail = false
	fallback.fail = true
	if _, _, err := s.Synthesize(ctx, "two", langid.LangEnglish); err != nil {
		t.Fatalf("Synthesize() after fallback death error = %v", err)
	}
	// Primary active again.
	if _, _, err := s.Synthesize(ctx, "three", langid.LangEnglish); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if primary.calls != 3 { // initial failure + recovery + steady state
		t.Fatalf("primary calls = %d, want 3", primary.calls)
	}
}

func TestFailoverBothDeadErrors(t *testing.T) {
	s := NewFailoverSynthesizer(&stubSynth{name: "a", fail: true}, &stubSynth{name: "b", fail: true})
	if _, _, err := s.Synthesize(context.Background(), "x", langid.LangEnglish); err == nil {
		t.Fatalf("Synthesize() error = nil, want both-paths failure")
	}
}

func TestFailoverSingleSideConfigurations(t *testing.T) {
	only := &stubSynth{name: "only"}
	s := NewFailoverSynthesizer(nil, only)
	if _, _, err := s.Synthesize(context.Background(), "x", langid.LangEnglish); err != nil {
		t.Fatalf("fallback-only Synthesize() error = %v", err)
	}
	s = NewFailoverSynthesizer(only, nil)
	if _, _, err := s.Synthesize(context.Background(), "x", langid.LangEnglish); err != nil {
		t.Fatalf("primary-only Synthesize() error = %v", err)
	}
	if _, _, err := NewFailoverSynthesizer(nil, nil).Synthesize(context.Background(), "x", langid.LangEnglish); err == nil {
		t.Fatalf("empty failover Synthesize() error = nil, want error")
	}
}
