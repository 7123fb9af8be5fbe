package speech

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/omkarw/bestbuddy/internal/langid"
)

// NewFailoverSynthesizer prefers the primary (offline) synthesizer and
// switches to the fallback (online) when it fails. Once the fallback
// succeeds it stays active until it fails; then primary is retried.
func NewFailoverSynthesizer(primary, fallback Synthesizer) Synthesizer {
	return &failoverSynthesizer{primary: primary, fallback: fallback}
}

type failoverSynthesizer struct {
	fallbackActive atomic.Bool
	primary        Synthesizer
	fallback       Synthesizer
}

func (s *failoverSynthesizer) Name() string { return "failover" }

func (s *failoverSynthesizer) Synthesize(ctx context.Context, text string, lang langid.Lang) ([]byte, string, error) {
	if s.primary == nil && s.fallback == nil {
		return nil, "", fmt.Errorf("no synthesizer configured")
	}
	if s.primary == nil {
		return s.fallback.Synthesize(ctx, text, lang)
	}
	if s.fallback == nil {
		return s.primary.Synthesize(ctx, text, lang)
	}

	if s.fallbackActive.Load() {
		audio, format, fbErr := s.fallback.Synthesize(ctx, text, lang)
		if fbErr == nil {
			return audio, format, nil
		}
		// Fallback failed after being active; try primary again.
		audio, format, prErr := s.primary.Synthesize(ctx, text, lang)
		if prErr == nil {
			s.fallbackActive.Store(false)
			return audio, format, nil
		}
		return nil, "", fmt.Errorf("tts fallback failed: %v; tts primary failed: %w", fbErr, prErr)
	}

	audio, format, prErr := s.primary.Synthesize(ctx, text, lang)
	if prErr == nil {
		return audio, format, nil
	}
	audio, format, fbErr := s.fallback.Synthesize(ctx, text, lang)
	if fbErr != nil {
		return nil, "", fmt.Errorf("tts primary failed: %v; tts fallback failed: %w", prErr, fbErr)
	}
	s.fallbackActive.Store(true)
	return audio, format, nil
}
