package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/omkarw/bestbuddy/internal/langid"
	"github.com/omkarw/bestbuddy/internal/reliability"
)

// EspeakSynthesizer is the offline path: it shells out to espeak-ng and
// captures WAV output from stdout.
type EspeakSynthesizer struct {
	cli string
}

var espeakVoices = map[langid.Lang]string{
	langid.LangEnglish: "en",
	langid.LangHindi:   "hi",
	langid.LangMarathi: "mr",
}

func NewEspeakSynthesizer(cli string) (*EspeakSynthesizer, error) {
	if cli == "" {
		cli = "espeak-ng"
	}
	path, err := exec.LookPath(cli)
	if err != nil {
		return nil, fmt.Errorf("espeak cli %q not found: %w", cli, err)
	}
	return &EspeakSynthesizer{cli: path}, nil
}

func (s *EspeakSynthesizer) Name() string { return "espeak" }

func (s *EspeakSynthesizer) Synthesize(ctx context.Context, text string, lang langid.Lang) ([]byte, string, error) {
	voice, ok := espeakVoices[lang]
	if !ok {
		voice = "en"
	}
	out, err := exec.CommandContext(ctx, s.cli, "-v", voice, "-s", "160", "--stdout", text).Output()
	if err != nil {
		return nil, "", fmt.Errorf("espeak synthesis failed: %w", err)
	}
	if len(out) == 0 {
		return nil, "", fmt.Errorf("espeak produced no audio")
	}
	return out, "audio/wav", nil
}

// HTTPSynthesizer is the online fallback: a gTTS-style HTTP endpoint that
// returns MP3 bytes for a text query.
type HTTPSynthesizer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSynthesizer(baseURL string) (*HTTPSynthesizer, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("no tts endpoint configured")
	}
	return &HTTPSynthesizer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *HTTPSynthesizer) Name() string { return "http" }

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string, lang langid.Lang) ([]byte, string, error) {
	// hi and mr are supported directly; everything else speaks English.
	tl := string(lang)
	if lang != langid.LangHindi && lang != langid.LangMarathi {
		tl = "en"
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("tl", tl)
	endpoint := s.baseURL + "?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt < ttsMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(reliability.ExponentialBackoff(attempt, 200*time.Millisecond, 2*time.Second)):
			}
		}
		body, retryable, err := s.fetch(ctx, endpoint)
		if err == nil {
			return body, "audio/mpeg", nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, "", lastErr
}

const ttsMaxAttempts = 3

func (s *HTTPSynthesizer) fetch(ctx context.Context, endpoint string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, reliability.IsRetryableHTTPStatus(resp.StatusCode), fmt.Errorf("tts endpoint returned %d", resp.StatusCode)
	}
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read tts response: %w", err)
	}
	if len(body) == 0 {
		return nil, false, fmt.Errorf("tts endpoint returned no audio")
	}
	return body, false, nil
}
