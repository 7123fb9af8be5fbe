package speech

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"
)

const captureSampleRate = 16000

// Capture records one utterance of raw PCM16LE mono audio from the default
// input device by running an external capture command (arecord by default).
// A missing device or capture binary is the one error in the speech package
// that is surfaced rather than degraded.
type Capture struct {
	cli        string
	maxPhrase  time.Duration
	sampleRate int
}

func NewCapture(cli string, maxPhrase time.Duration) (*Capture, error) {
	if cli == "" {
		cli = "arecord"
	}
	path, err := exec.LookPath(cli)
	if err != nil {
		return nil, fmt.Errorf("capture command %q not found: %w", cli, err)
	}
	if maxPhrase <= 0 {
		maxPhrase = 12 * time.Second
	}
	return &Capture{cli: path, maxPhrase: maxPhrase, sampleRate: captureSampleRate}, nil
}

// SampleRate returns the fixed capture sample rate.
func (c *Capture) SampleRate() int { return c.sampleRate }

// Record captures up to the phrase limit of audio and returns raw PCM16LE
// bytes. ctx bounds the overall listen window; when it expires mid-phrase
// the audio collected so far is returned rather than an error, so a long
// utterance is cut short instead of failing the turn. The error return is
// reserved for the capture process itself failing.
func (c *Capture) Record(ctx context.Context) ([]byte, error) {
	seconds := int(c.maxPhrase.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	cmd := exec.CommandContext(ctx, c.cli,
		"-q",
		"-f", "S16_LE",
		"-r", fmt.Sprint(c.sampleRate),
		"-c", "1",
		"-t", "raw",
		"-d", fmt.Sprint(seconds),
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("audio capture failed: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("audio capture failed: %w", err)
	}

	out, readErr := io.ReadAll(stdout)
	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		// The listen window closed while the device was still recording.
		return out, nil
	}
	if readErr != nil {
		return nil, fmt.Errorf("audio capture failed: %w", readErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("audio capture failed: %w", waitErr)
	}
	return out, nil
}
