// Package brain produces English answers to open-ended queries through a
// chain of generative backends, degrading to fixed replies when no backend
// is usable.
package brain

import (
	"context"
	"log"
	"strings"

	"github.com/omkarw/bestbuddy/internal/memory"
)

// Fixed degraded replies. Callers and tests depend on the exact strings.
const (
	UnavailableReply = "I'm unable to load the language model right now."
	ErrorReply       = "I ran into a problem generating a response."
)

// Backend is a single generative model endpoint.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Generator selects the first configured backend from an ordered list at
// construction time. When none is configured it is permanently degraded and
// never attempts a model call.
type Generator struct {
	backend   Backend
	maxTokens int
	contextK  int
}

const DefaultMaxTokens = 120

// NewGenerator picks the first non-nil backend. historyLimit bounds the
// conversation memory; up to historyLimit/2 recent turns are prepended to
// each prompt.
func NewGenerator(backends []Backend, maxTokens, historyLimit int) *Generator {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if historyLimit <= 0 {
		historyLimit = memory.DefaultLimit
	}
	g := &Generator{maxTokens: maxTokens, contextK: historyLimit / 2}
	for _, b := range backends {
		if b == nil {
			continue
		}
		g.backend = b
		log.Printf("brain: using %s backend", b.Name())
		return g
	}
	log.Printf("brain: no generation backend available, replies degraded")
	return g
}

// Degraded reports whether no backend could be selected.
func (g *Generator) Degraded() bool { return g.backend == nil }

// Name returns the active backend name, or "none" when degraded.
func (g *Generator) Name() string {
	if g.backend == nil {
		return "none"
	}
	return g.backend.Name()
}

// Generate answers prompt in English, prepending recent context turns. It
// never returns an error: backend failures become ErrorReply and the
// degraded state becomes UnavailableReply.
func (g *Generator) Generate(ctx context.Context, prompt string, turns []memory.Turn) string {
	if g.backend == nil {
		return UnavailableReply
	}

	out, err := g.backend.Generate(ctx, g.buildPrompt(prompt, turns), g.maxTokens)
	if err != nil {
		log.Printf("brain: %s generation failed: %v", g.backend.Name(), err)
		return ErrorReply
	}
	return strings.TrimSpace(out)
}

// buildPrompt joins the text of up to contextK most recent turns with
// spaces ahead of the new prompt, keeping the prompt small.
func (g *Generator) buildPrompt(prompt string, turns []memory.Turn) string {
	if len(turns) == 0 || g.contextK == 0 {
		return prompt
	}
	if len(turns) > g.contextK {
		turns = turns[len(turns)-g.contextK:]
	}
	texts := make([]string, 0, len(turns))
	for _, t := range turns {
		texts = append(texts, t.Text)
	}
	return strings.Join(texts, " ") + "\nUser: " + prompt
}
