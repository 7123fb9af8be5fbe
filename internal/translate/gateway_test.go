package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/omkarw/bestbuddy/internal/langid"
)

type stubBackend struct {
	translate func(ctx context.Context, text string, source, target langid.Lang) (string, error)
	calls     int
}

func (s *stubBackend) Translate(ctx context.Context, text string, source, target langid.Lang) (string, error) {
	s.calls++
	return s.translate(ctx, text, source, target)
}

func TestGatewayIdentityForEnglish(t *testing.T) {
	backend := &stubBackend{translate: func(_ context.Context, _ string, _, _ langid.Lang) (string, error) {
		return "never", nil
	}}
	g := NewGateway(
		func() (Backend, error) { return backend, nil },
		func() (Backend, error) { return backend, nil },
	)

	if got := g.ToEnglish(context.Background(), "hello", langid.LangEnglish); got != "hello" {
		t.Fatalf("ToEnglish(en) = %q, want identity", got)
	}
	if got := g.FromEnglish(context.Background(), "hello", langid.LangEnglish); got != "hello" {
		t.Fatalf("FromEnglish(en) = %q, want identity", got)
	}
	if backend.calls != 0 {
		t.Fatalf("backend calls = %d, want 0 for english identity", backend.calls)
	}
}

func TestGatewayPassthroughWhenBackendMissing(t *testing.T) {
	g := NewGateway(nil, nil)
	in := "आप कैसे हैं"
	en := g.ToEnglish(context.Background(), in, langid.LangHindi)
	back := g.FromEnglish(context.Background(), en, langid.LangHindi)
	if back != in {
		t.Fatalf("round trip under degradation = %q, want %q", back, in)
	}
}

func TestGatewayPassthroughWhenBackendErrors(t *testing.T) {
	backend := &stubBackend{translate: func(_ context.Context, _ string, _, _ langid.Lang) (string, error) {
		return "", errors.New("model exploded")
	}}
	g := NewGateway(func() (Backend, error) { return backend, nil }, nil)

	if got := g.ToEnglish(context.Background(), "वेळ काय", langid.LangMarathi); got != "वेळ काय" {
		t.Fatalf("ToEnglish on backend error = %q, want passthrough", got)
	}
}

func TestGatewayInitFailureIsCached(t *testing.T) {
	attempts := 0
	g := NewGateway(func() (Backend, error) {
		attempts++
		return nil, errors.New("weights missing")
	}, nil)

	for i := 0; i < 3; i++ {
		if got := g.ToEnglish(context.Background(), "नमस्ते", langid.LangHindi); got != "नमस्ते" {
			t.Fatalf("ToEnglish = %q, want passthrough", got)
		}
	}
	if attempts != 1 {
		t.Fatalf("factory attempts = %d, want 1 (failure cached)", attempts)
	}
}

func TestGatewayUsesBackendTranslation(t *testing.T) {
	backend := &stubBackend{translate: func(_ context.Context, text string, source, target langid.Lang) (string, error) {
		if source != langid.LangHindi || target != langid.LangEnglish {
			t.Fatalf("direction = %s->%s, want hi->en", source, target)
		}
		return "  how are you  ", nil
	}}
	g := NewGateway(func() (Backend, error) { return backend, nil }, nil)

	got := g.ToEnglish(context.Background(), "आप कैसे हैं", langid.LangHindi)
	if got != "how are you" {
		t.Fatalf("ToEnglish = %q, want trimmed backend output", got)
	}
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, want 1", backend.calls)
	}
}

func TestGatewayEmptyBackendOutputPassesThrough(t *testing.T) {
	backend := &stubBackend{translate: func(_ context.Context, _ string, _, _ langid.Lang) (string, error) {
		return strings.Repeat(" ", 4), nil
	}}
	g := NewGateway(nil, func() (Backend, error) { return backend, nil })

	if got := g.FromEnglish(context.Background(), "Opening YouTube.", langid.LangHindi); got != "Opening YouTube." {
		t.Fatalf("FromEnglish with blank output = %q, want passthrough", got)
	}
}
