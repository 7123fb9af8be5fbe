package speech

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/omkarw/bestbuddy/internal/audio"
	"github.com/omkarw/bestbuddy/internal/langid"
)

// Capturer records one utterance of raw PCM16LE audio.
type Capturer interface {
	SampleRate() int
	Record(ctx context.Context) ([]byte, error)
}

// Listener turns one microphone capture into text by trying a prioritized
// list of recognition language hints and keeping the first non-empty
// transcript.
type Listener struct {
	capture       Capturer
	recognizer    Recognizer
	detector      *langid.Detector
	listenTimeout time.Duration
	calibration   time.Duration
	hints         []langid.Lang
}

func NewListener(capture Capturer, recognizer Recognizer, detector *langid.Detector, listenTimeout, calibration time.Duration) *Listener {
	if listenTimeout <= 0 {
		listenTimeout = 6 * time.Second
	}
	return &Listener{
		capture:       capture,
		recognizer:    recognizer,
		detector:      detector,
		listenTimeout: listenTimeout,
		calibration:   calibration,
		hints:         DefaultHintOrder,
	}
}

// Listen captures one utterance and transcribes it. Recognition failures are
// not errors: when every hint fails or nothing was said, it returns empty
// text and no language. The error return is reserved for the capture device
// itself being unusable.
func (l *Listener) Listen(ctx context.Context) (string, langid.Lang, error) {
	captureCtx, cancel := context.WithTimeout(ctx, l.listenTimeout+l.calibration)
	defer cancel()

	pcm, err := l.capture.Record(captureCtx)
	if err != nil {
		return "", "", err
	}
	// The leading calibration window is ambient noise, not speech.
	pcm = audio.TrimLeadingMS(pcm, l.capture.SampleRate(), l.calibration)
	if len(pcm) == 0 {
		return "", "", nil
	}

	wavPath, cleanup, err := l.writeTempWAV(pcm)
	if err != nil {
		log.Printf("speech: staging capture failed: %v", err)
		return "", "", nil
	}
	defer cleanup()

	for _, hint := range l.hints {
		text, err := l.recognizer.Recognize(ctx, wavPath, hint)
		if err != nil {
			log.Printf("speech: recognition with hint %s failed: %v", hint, err)
			continue
		}
		if text == "" {
			continue
		}
		return text, l.detector.Detect(text), nil
	}
	return "", "", nil
}

func (l *Listener) writeTempWAV(pcm []byte) (string, func(), error) {
	wav, err := audio.EncodeWAVPCM16LE(pcm, l.capture.SampleRate())
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(os.TempDir(), "bestbuddy-capture-"+uuid.NewString()+".wav")
	if err := os.WriteFile(path, wav, 0o600); err != nil {
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
