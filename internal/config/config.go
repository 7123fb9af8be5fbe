package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowAnyOrigin   bool

	MemoryPath  string
	MemoryLimit int
	DatabaseURL string

	LLMProvider        string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	LLMChatModel       string
	LLMCompletionModel string
	LLMMaxNewTokens    int
	TranslateModel     string

	SpeechProvider     string
	CaptureCLI         string
	ListenTimeout      time.Duration
	PhraseTimeLimit    time.Duration
	AmbientCalibration time.Duration
	WhisperCLI         string
	WhisperModelPath   string
	EspeakCLI          string
	TTSHTTPURL         string
	SpeakReplies       bool
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "bestbuddy"),
		AllowAnyOrigin:   false,
		ShutdownTimeout:  15 * time.Second,

		MemoryPath:  envOrDefault("MEMORY_PATH", "memory.json"),
		MemoryLimit: 6,
		DatabaseURL: stringsTrimSpace("DATABASE_URL"),

		LLMProvider:        envOrDefault("LLM_PROVIDER", "auto"),
		OpenAIAPIKey:       stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIBaseURL:      stringsTrimSpace("OPENAI_BASE_URL"),
		LLMChatModel:       envOrDefault("LLM_CHAT_MODEL", "gpt-4o-mini"),
		LLMCompletionModel: stringsTrimSpace("LLM_COMPLETION_MODEL"),
		LLMMaxNewTokens:    120,
		TranslateModel:     stringsTrimSpace("TRANSLATE_MODEL"),

		SpeechProvider:     envOrDefault("SPEECH_PROVIDER", "auto"),
		CaptureCLI:         envOrDefault("CAPTURE_CLI", "arecord"),
		ListenTimeout:      6 * time.Second,
		PhraseTimeLimit:    12 * time.Second,
		AmbientCalibration: 600 * time.Millisecond,
		WhisperCLI:         envOrDefault("WHISPER_CLI", "whisper-cli"),
		WhisperModelPath:   stringsTrimSpace("WHISPER_MODEL_PATH"),
		EspeakCLI:          envOrDefault("ESPEAK_CLI", "espeak-ng"),
		TTSHTTPURL:         stringsTrimSpace("TTS_HTTP_URL"),
		SpeakReplies:       true,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.MemoryLimit, err = intFromEnv("MEMORY_LIMIT", cfg.MemoryLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMMaxNewTokens, err = intFromEnv("LLM_MAX_NEW_TOKENS", cfg.LLMMaxNewTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.ListenTimeout, err = durationFromEnv("LISTEN_TIMEOUT", cfg.ListenTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.PhraseTimeLimit, err = durationFromEnv("PHRASE_TIME_LIMIT", cfg.PhraseTimeLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.AmbientCalibration, err = durationFromEnv("AMBIENT_CALIBRATION", cfg.AmbientCalibration)
	if err != nil {
		return Config{}, err
	}
	cfg.SpeakReplies, err = boolFromEnv("SPEAK_REPLIES", cfg.SpeakReplies)
	if err != nil {
		return Config{}, err
	}

	if cfg.MemoryLimit <= 0 {
		return Config{}, fmt.Errorf("MEMORY_LIMIT must be positive")
	}
	if cfg.LLMMaxNewTokens <= 0 {
		return Config{}, fmt.Errorf("LLM_MAX_NEW_TOKENS must be positive")
	}
	if cfg.ListenTimeout <= 0 || cfg.PhraseTimeLimit <= 0 {
		return Config{}, fmt.Errorf("listen and phrase durations must be positive")
	}
	if cfg.AmbientCalibration < 0 {
		return Config{}, fmt.Errorf("AMBIENT_CALIBRATION must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "auto", "openai", "mock":
	default:
		return Config{}, fmt.Errorf("invalid LLM_PROVIDER: %q (expected auto|openai|mock)", cfg.LLMProvider)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.SpeechProvider)) {
	case "auto", "local", "mock":
	default:
		return Config{}, fmt.Errorf("invalid SPEECH_PROVIDER: %q (expected auto|local|mock)", cfg.SpeechProvider)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: invalid boolean %q", key, v)
	}
}
