package speech

import (
	"context"

	"github.com/omkarw/bestbuddy/internal/langid"
)

// MockCapture returns a fixed PCM payload without touching any device. Used
// for SPEECH_PROVIDER=mock and in tests.
type MockCapture struct {
	PCM []byte
	Err error
}

func (m *MockCapture) SampleRate() int { return captureSampleRate }

func (m *MockCapture) Record(_ context.Context) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.PCM != nil {
		return m.PCM, nil
	}
	return make([]byte, captureSampleRate*2), nil // one second of silence
}

// MockRecognizer returns a fixed transcript for a chosen hint.
type MockRecognizer struct {
	Text string
	Hint langid.Lang
}

func (m *MockRecognizer) Recognize(_ context.Context, _ string, hint langid.Lang) (string, error) {
	if m.Hint != "" && hint != m.Hint {
		return "", nil
	}
	return m.Text, nil
}

// MockSynthesizer returns the input text bytes tagged as mock audio.
type MockSynthesizer struct{}

func (MockSynthesizer) Name() string { return "mock" }

func (MockSynthesizer) Synthesize(_ context.Context, text string, _ langid.Lang) ([]byte, string, error) {
	return []byte(text), "mock_text_bytes", nil
}

// NopPlayer swallows playback. Used with the mock provider.
type NopPlayer struct{}

func (NopPlayer) PlayAudioFile(string) error { return nil }
