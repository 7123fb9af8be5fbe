package speech

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/omkarw/bestbuddy/internal/langid"
)

// Speaker voices replies. Synthesis goes through the configured synthesizer
// chain; playback writes a temporary audio file and hands it to the platform
// player. The temp artifact is removed on every exit path. Total failure
// degrades to a log line, never an error.
type Speaker struct {
	synth  Synthesizer
	player Player

	// playbackGrace gives an external player time to open the file before
	// it is deleted.
	playbackGrace time.Duration
}

func NewSpeaker(synth Synthesizer, player Player) *Speaker {
	if player == nil {
		player = OSPlayer{}
	}
	return &Speaker{synth: synth, player: player, playbackGrace: 1500 * time.Millisecond}
}

func (s *Speaker) Speak(ctx context.Context, text string, lang langid.Lang) {
	if text == "" {
		return
	}
	if s.synth == nil {
		log.Printf("bestbuddy (tts unavailable): %s", text)
		return
	}

	audio, contentType, err := s.synth.Synthesize(ctx, text, lang)
	if err != nil {
		log.Printf("bestbuddy (tts failed): %s", text)
		return
	}

	path := filepath.Join(os.TempDir(), "bestbuddy-reply-"+uuid.NewString()+extFor(contentType))
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		log.Printf("bestbuddy (tts failed): %s", text)
		return
	}
	defer os.Remove(path)

	if err := s.player.PlayAudioFile(path); err != nil {
		log.Printf("bestbuddy (playback failed): %s", text)
		return
	}
	// Give the player a moment before the deferred delete fires.
	select {
	case <-time.After(s.playbackGrace):
	case <-ctx.Done():
	}
}

// SynthesizeToBytes exposes raw synthesis for callers that ship audio over
// the wire instead of playing it locally. Returns nil on any failure.
func (s *Speaker) SynthesizeToBytes(ctx context.Context, text string, lang langid.Lang) ([]byte, string) {
	if s.synth == nil || text == "" {
		return nil, ""
	}
	audio, contentType, err := s.synth.Synthesize(ctx, text, lang)
	if err != nil {
		return nil, ""
	}
	return audio, contentType
}

func extFor(contentType string) string {
	switch contentType {
	case "audio/mpeg":
		return ".mp3"
	default:
		return ".wav"
	}
}

// OSPlayer opens the audio file with the platform opener, which delegates to
// the user's default media player.
type OSPlayer struct{}

func (OSPlayer) PlayAudioFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch player for %s: %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
