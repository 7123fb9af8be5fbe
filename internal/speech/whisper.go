package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/omkarw/bestbuddy/internal/langid"
)

// WhisperRecognizer transcribes WAV files by shelling out to a whisper.cpp
// CLI binary.
type WhisperRecognizer struct {
	cli       string
	modelPath string
}

func NewWhisperRecognizer(cli, modelPath string) (*WhisperRecognizer, error) {
	if cli == "" {
		cli = "whisper-cli"
	}
	path, err := exec.LookPath(cli)
	if err != nil {
		return nil, fmt.Errorf("whisper cli %q not found: %w", cli, err)
	}
	if modelPath != "" {
		if _, err := os.Stat(modelPath); err != nil {
			return nil, fmt.Errorf("whisper model not found: %s", modelPath)
		}
	}
	return &WhisperRecognizer{cli: path, modelPath: modelPath}, nil
}

func (r *WhisperRecognizer) Recognize(ctx context.Context, wavPath string, hint langid.Lang) (string, error) {
	args := r.args(wavPath, hint)
	out, err := exec.CommandContext(ctx, r.cli, args...).Output()
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *WhisperRecognizer) args(wavPath string, hint langid.Lang) []string {
	args := []string{}
	if r.modelPath != "" {
		args = append(args, "-m", r.modelPath)
	}
	args = append(args,
		"-l", string(hint),
		"--no-prints",
		"--no-timestamps",
		"-f", wavPath,
	)
	return args
}
