// Package speech implements one-shot voice capture with recognition
// fallbacks and offline-first speech synthesis.
package speech

import (
	"context"

	"github.com/omkarw/bestbuddy/internal/langid"
)

// Recognizer transcribes one recorded utterance (a WAV file on disk) using
// the given language hint.
type Recognizer interface {
	Recognize(ctx context.Context, wavPath string, hint langid.Lang) (string, error)
}

// Synthesizer renders text to audio bytes, returning the bytes and their
// content type (audio/wav, audio/mpeg).
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string, lang langid.Lang) ([]byte, string, error)
}

// Player hands a synthesized audio file to the platform for playback.
type Player interface {
	PlayAudioFile(path string) error
}

// DefaultHintOrder is the recognition language priority: Hindi first, then
// Marathi, then English, mirroring the assistant's expected user base.
var DefaultHintOrder = []langid.Lang{langid.LangHindi, langid.LangMarathi, langid.LangEnglish}
