// Package translate moves text between English and the assistant's Indic
// languages through a pluggable backend, degrading to passthrough when no
// backend is available.
package translate

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/omkarw/bestbuddy/internal/langid"
)

// Backend translates text from source to target.
type Backend interface {
	Translate(ctx context.Context, text string, source, target langid.Lang) (string, error)
}

// BackendFactory builds a translation backend. Returning an error marks the
// direction permanently unavailable for the process lifetime.
type BackendFactory func() (Backend, error)

// Gateway performs bidirectional English<->Indic translation. Backends are
// initialized lazily, at most once per direction; a failed init is cached so
// every later call is a cheap passthrough. Callers must treat output as
// potentially untranslated.
type Gateway struct {
	toEnglish   lazyBackend
	fromEnglish lazyBackend
}

type lazyBackend struct {
	once    sync.Once
	factory BackendFactory
	backend Backend
}

func (l *lazyBackend) get(direction string) Backend {
	l.once.Do(func() {
		if l.factory == nil {
			return
		}
		b, err := l.factory()
		if err != nil {
			log.Printf("translate: %s backend unavailable: %v", direction, err)
			return
		}
		l.backend = b
	})
	return l.backend
}

// NewGateway builds a gateway from per-direction factories. Either factory
// may be nil, which makes that direction a permanent passthrough.
func NewGateway(toEnglish, fromEnglish BackendFactory) *Gateway {
	return &Gateway{
		toEnglish:   lazyBackend{factory: toEnglish},
		fromEnglish: lazyBackend{factory: fromEnglish},
	}
}

// ToEnglish translates text from src into English. Identity when src is
// English; passthrough on any backend failure.
func (g *Gateway) ToEnglish(ctx context.Context, text string, src langid.Lang) string {
	if src == langid.LangEnglish {
		return text
	}
	return g.run(ctx, g.toEnglish.get("indic-to-en"), text, src, langid.LangEnglish)
}

// FromEnglish translates English text into tgt. Identity when tgt is
// English; passthrough on any backend failure.
func (g *Gateway) FromEnglish(ctx context.Context, text string, tgt langid.Lang) string {
	if tgt == langid.LangEnglish {
		return text
	}
	return g.run(ctx, g.fromEnglish.get("en-to-indic"), text, langid.LangEnglish, tgt)
}

func (g *Gateway) run(ctx context.Context, b Backend, text string, src, tgt langid.Lang) string {
	if b == nil {
		return text
	}
	out, err := b.Translate(ctx, text, src, tgt)
	if err != nil {
		log.Printf("translate: %s->%s failed, passing text through: %v", src, tgt, err)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}
