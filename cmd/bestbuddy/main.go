package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/omkarw/bestbuddy/internal/assistant"
	"github.com/omkarw/bestbuddy/internal/brain"
	"github.com/omkarw/bestbuddy/internal/command"
	"github.com/omkarw/bestbuddy/internal/config"
	"github.com/omkarw/bestbuddy/internal/httpapi"
	"github.com/omkarw/bestbuddy/internal/langid"
	"github.com/omkarw/bestbuddy/internal/memory"
	"github.com/omkarw/bestbuddy/internal/observability"
	"github.com/omkarw/bestbuddy/internal/speech"
	"github.com/omkarw/bestbuddy/internal/translate"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	stages := observability.NewStageWindow(256)

	ctx := context.Background()
	memoryStore, err := memory.NewStore(ctx, cfg.DatabaseURL, cfg.MemoryPath, cfg.MemoryLimit)
	if err != nil {
		log.Fatalf("memory store init failed: %v", err)
	}
	defer memoryStore.Close()

	detector := langid.NewDetector()
	router := command.NewRouter(command.OSActions{})
	gateway := newTranslationGateway(cfg)
	generator := newGenerator(cfg)
	speaker, listener := newSpeechStack(cfg, detector)

	orchestrator := assistant.New(assistant.Config{
		Detector:     detector,
		Router:       router,
		Gateway:      gateway,
		Generator:    generator,
		Store:        memoryStore,
		Speaker:      speaker,
		Listener:     listener,
		Metrics:      metrics,
		Stages:       stages,
		HistoryLimit: cfg.MemoryLimit,
		SpeakReplies: cfg.SpeakReplies,
	})

	api := httpapi.New(cfg, orchestrator, metrics, stages)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

// newTranslationGateway wires the pivot-language translator. Without an API
// key the gateway stays in passthrough mode and every turn is answered in
// whatever language the generation backend produces.
func newTranslationGateway(cfg config.Config) *translate.Gateway {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && strings.TrimSpace(cfg.OpenAIBaseURL) == "" {
		log.Printf("translation: no backend credentials, running in passthrough mode")
		return translate.NewGateway(nil, nil)
	}
	model := cfg.TranslateModel
	if strings.TrimSpace(model) == "" {
		model = cfg.LLMChatModel
	}
	factory := func() (translate.Backend, error) {
		return translate.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model)
	}
	log.Printf("translation: openai backend (model %s)", model)
	return translate.NewGateway(factory, factory)
}

func newGenerator(cfg config.Config) *brain.Generator {
	mode := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if mode == "" {
		mode = "auto"
	}

	var backends []brain.Backend

	tryOpenAI := func(fatal bool) bool {
		chat, err := brain.NewChatBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMChatModel)
		if err != nil {
			if fatal {
				log.Fatalf("llm backend init failed: %v", err)
			}
			log.Printf("llm backend unavailable: %v", err)
			return false
		}
		backends = append(backends, chat)
		if strings.TrimSpace(cfg.LLMCompletionModel) != "" {
			completion, err := brain.NewCompletionBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMCompletionModel)
			if err != nil {
				log.Printf("completion backend unavailable: %v", err)
			} else {
				backends = append(backends, completion)
			}
		}
		log.Printf("llm provider: openai (model %s)", cfg.LLMChatModel)
		return true
	}

	switch mode {
	case "openai":
		_ = tryOpenAI(true)
	case "mock":
		backends = append(backends, brain.NewMockBackend())
		log.Printf("llm provider: mock")
	case "auto":
		if !tryOpenAI(false) {
			// Run degraded: every generated turn answers with the fixed
			// unavailable reply while commands, memory, and speech keep
			// working.
			log.Printf("llm provider: none, generation degraded")
		}
	}

	return brain.NewGenerator(backends, cfg.LLMMaxNewTokens, cfg.MemoryLimit)
}

// newSpeechStack builds the speaker and listener for the configured speech
// provider. In auto mode a missing microphone or whisper binary degrades to
// the mock provider instead of failing startup.
func newSpeechStack(cfg config.Config, detector *langid.Detector) (*speech.Speaker, assistant.VoiceCapture) {
	mode := strings.ToLower(strings.TrimSpace(cfg.SpeechProvider))
	if mode == "" {
		mode = "auto"
	}

	newListener := func(capture speech.Capturer, recognizer speech.Recognizer) *speech.Listener {
		return speech.NewListener(capture, recognizer, detector, cfg.ListenTimeout, cfg.AmbientCalibration)
	}

	mock := func(reason string) (*speech.Speaker, assistant.VoiceCapture) {
		if reason != "" {
			log.Printf("speech provider: mock (%s)", reason)
		} else {
			log.Printf("speech provider: mock")
		}
		speaker := speech.NewSpeaker(&speech.MockSynthesizer{}, speech.NopPlayer{})
		return speaker, newListener(&speech.MockCapture{}, &speech.MockRecognizer{})
	}

	tryLocal := func(fatal bool) (*speech.Speaker, assistant.VoiceCapture, bool) {
		capture, err := speech.NewCapture(cfg.CaptureCLI, cfg.PhraseTimeLimit)
		if err != nil {
			if fatal {
				log.Fatalf("capture init failed: %v", err)
			}
			log.Printf("capture unavailable: %v", err)
			return nil, nil, false
		}
		recognizer, err := speech.NewWhisperRecognizer(cfg.WhisperCLI, cfg.WhisperModelPath)
		if err != nil {
			if fatal {
				log.Fatalf("recognizer init failed: %v", err)
			}
			log.Printf("recognizer unavailable: %v", err)
			return nil, nil, false
		}

		var primary, fallback speech.Synthesizer
		if espeak, err := speech.NewEspeakSynthesizer(cfg.EspeakCLI); err != nil {
			log.Printf("espeak unavailable: %v", err)
		} else {
			primary = espeak
		}
		if strings.TrimSpace(cfg.TTSHTTPURL) != "" {
			if httpSynth, err := speech.NewHTTPSynthesizer(cfg.TTSHTTPURL); err != nil {
				log.Printf("http tts unavailable: %v", err)
			} else {
				fallback = httpSynth
			}
		}

		var speaker *speech.Speaker
		if primary != nil || fallback != nil {
			speaker = speech.NewSpeaker(speech.NewFailoverSynthesizer(primary, fallback), speech.OSPlayer{})
		} else {
			log.Printf("speech synthesis unavailable, replies stay text-only")
		}

		log.Printf("speech provider: local (%s + %s)", cfg.CaptureCLI, cfg.WhisperCLI)
		return speaker, newListener(capture, recognizer), true
	}

	switch mode {
	case "local":
		speaker, listener, _ := tryLocal(true)
		return speaker, listener
	case "mock":
		return mock("")
	default: // auto
		if speaker, listener, ok := tryLocal(false); ok {
			return speaker, listener
		}
		return mock("local speech unavailable")
	}
}
