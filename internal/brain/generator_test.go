package brain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/omkarw/bestbuddy/internal/memory"
)

type stubBackend struct {
	name     string
	generate func(ctx context.Context, prompt string, maxTokens int) (string, error)
	calls    int
	lastGot  string
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.calls++
	s.lastGot = prompt
	return s.generate(ctx, prompt, maxTokens)
}

func TestGeneratorDegradedAlwaysFixedReply(t *testing.T) {
	g := NewGenerator(nil, 120, 6)
	if !g.Degraded() {
		t.Fatalf("Degraded() = false, want true with no backends")
	}
	for _, prompt := range []string{"", "hello", "tell me a story"} {
		if got := g.Generate(context.Background(), prompt, nil); got != UnavailableReply {
			t.Fatalf("Generate(%q) = %q, want %q", prompt, got, UnavailableReply)
		}
	}
}

func TestGeneratorSkipsNilBackends(t *testing.T) {
	backend := &stubBackend{name: "fallback", generate: func(context.Context, string, int) (string, error) {
		return "answer", nil
	}}
	g := NewGenerator([]Backend{nil, backend}, 120, 6)
	if g.Degraded() {
		t.Fatalf("Degraded() = true, want false with a usable fallback")
	}
	if g.Name() != "fallback" {
		t.Fatalf("Name() = %q, want %q", g.Name(), "fallback")
	}
}

func TestGeneratorPerCallErrorReply(t *testing.T) {
	backend := &stubBackend{name: "flaky", generate: func(context.Context, string, int) (string, error) {
		return "", errors.New("timeout")
	}}
	g := NewGenerator([]Backend{backend}, 120, 6)

	if got := g.Generate(context.Background(), "anything", nil); got != ErrorReply {
		t.Fatalf("Generate() = %q, want %q", got, ErrorReply)
	}
}

func TestGeneratorTrimsOutput(t *testing.T) {
	backend := &stubBackend{name: "chat", generate: func(context.Context, string, int) (string, error) {
		return "  Paris is the capital of France.\n", nil
	}}
	g := NewGenerator([]Backend{backend}, 120, 6)

	got := g.Generate(context.Background(), "capital of France?", nil)
	if got != "Paris is the capital of France." {
		t.Fatalf("Generate() = %q, want trimmed output", got)
	}
}

func TestGeneratorPrependsBoundedContext(t *testing.T) {
	backend := &stubBackend{name: "chat", generate: func(context.Context, string, int) (string, error) {
		return "ok", nil
	}}
	g := NewGenerator([]Backend{backend}, 120, 6)

	turns := []memory.Turn{
		{Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"}, {Text: "five"},
	}
	g.Generate(context.Background(), "next question", turns)

	// historyLimit 6 keeps the last 3 turns.
	want := "three four five\nUser: next question"
	if backend.lastGot != want {
		t.Fatalf("backend prompt = %q, want %q", backend.lastGot, want)
	}
}

func TestGeneratorNoContextPassesPromptThrough(t *testing.T) {
	backend := &stubBackend{name: "chat", generate: func(context.Context, string, int) (string, error) {
		return "ok", nil
	}}
	g := NewGenerator([]Backend{backend}, 120, 6)

	g.Generate(context.Background(), "plain question", nil)
	if backend.lastGot != "plain question" {
		t.Fatalf("backend prompt = %q, want unmodified prompt", backend.lastGot)
	}
	if strings.Contains(backend.lastGot, "User:") {
		t.Fatalf("prompt %q unexpectedly carries a context prefix", backend.lastGot)
	}
}
