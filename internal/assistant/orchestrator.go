// Package assistant composes detection, command routing, translation,
// generation, memory, and speech into the end-to-end conversational turn.
package assistant

import (
	"context"
	"log"
	"time"

	"github.com/omkarw/bestbuddy/internal/brain"
	"github.com/omkarw/bestbuddy/internal/command"
	"github.com/omkarw/bestbuddy/internal/langid"
	"github.com/omkarw/bestbuddy/internal/memory"
	"github.com/omkarw/bestbuddy/internal/observability"
	"github.com/omkarw/bestbuddy/internal/session"
	"github.com/omkarw/bestbuddy/internal/speech"
	"github.com/omkarw/bestbuddy/internal/translate"
)

// EmptyInputReply is the fixed apology for empty input, returned before any
// pipeline stage runs.
const EmptyInputReply = "माफ करा, मी समजत नाही. कृपया पुन्हा बोलावं."

// NotHeardReply answers a voice turn where nothing was transcribed.
const NotHeardReply = "Sorry, I didn't catch that. Please try again."

// Reply is the unit returned to the caller for each turn.
type Reply struct {
	Text   string         `json:"reply"`
	Lang   langid.Lang    `json:"lang"`
	Intent command.Intent `json:"intent,omitempty"`
}

// VoiceCapture is the listening surface the orchestrator drives for voice
// turns.
type VoiceCapture interface {
	Listen(ctx context.Context) (string, langid.Lang, error)
}

type Orchestrator struct {
	detector  *langid.Detector
	router    *command.Router
	gateway   *translate.Gateway
	generator *brain.Generator
	store     memory.Store
	speaker   *speech.Speaker
	listener  VoiceCapture
	guard     *session.Guard
	metrics   *observability.Metrics
	stages    *observability.StageWindow

	historyLimit int
	speakReplies bool
}

type Config struct {
	Detector  *langid.Detector
	Router    *command.Router
	Gateway   *translate.Gateway
	Generator *brain.Generator
	Store     memory.Store
	Speaker   *speech.Speaker
	Listener  VoiceCapture
	Metrics   *observability.Metrics
	Stages    *observability.StageWindow

	HistoryLimit int
	SpeakReplies bool
}

func New(cfg Config) *Orchestrator {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = memory.DefaultLimit
	}
	return &Orchestrator{
		detector:     cfg.Detector,
		router:       cfg.Router,
		gateway:      cfg.Gateway,
		generator:    cfg.Generator,
		store:        cfg.Store,
		speaker:      cfg.Speaker,
		listener:     cfg.Listener,
		guard:        session.NewGuard(),
		metrics:      cfg.Metrics,
		stages:       cfg.Stages,
		historyLimit: limit,
		speakReplies: cfg.SpeakReplies,
	}
}

// Busy reports whether a turn is currently in flight.
func (o *Orchestrator) Busy() bool { return o.guard.Busy() }

// Process runs one guarded text turn. It returns session.ErrBusy when a turn
// is already in flight; HandleTurn itself never fails.
func (o *Orchestrator) Process(ctx context.Context, userText string) (Reply, error) {
	turnID, err := o.guard.TryBegin()
	if err != nil {
		o.metrics.BusyRejections.Inc()
		return Reply{}, err
	}
	defer o.guard.End(turnID)

	reply := o.HandleTurn(ctx, userText)
	if o.speakReplies {
		o.speak(reply)
	}
	return reply, nil
}

// ProcessVoice runs one guarded voice turn: listen, answer, speak. The error
// is session.ErrBusy or a capture-device failure; recognition misses become
// the NotHeardReply.
func (o *Orchestrator) ProcessVoice(ctx context.Context) (string, Reply, error) {
	turnID, err := o.guard.TryBegin()
	if err != nil {
		o.metrics.BusyRejections.Inc()
		return "", Reply{}, err
	}
	defer o.guard.End(turnID)

	heard, _, err := o.listener.Listen(ctx)
	if err != nil {
		return "", Reply{}, err
	}
	var reply Reply
	if heard == "" {
		reply = Reply{Text: NotHeardReply, Lang: langid.LangEnglish}
		o.metrics.Turns.WithLabelValues("not_heard").Inc()
	} else {
		reply = o.HandleTurn(ctx, heard)
	}
	o.speak(reply)
	return heard, reply, nil
}

// HandleTurn is the unguarded turn pipeline: detect, try a command, else
// translate, generate, and translate back, persisting memory along the way.
// Every stage degrades instead of failing; this function never errors.
func (o *Orchestrator) HandleTurn(ctx context.Context, userText string) Reply {
	if userText == "" {
		// Terminal fast path: no detection, translation, or generation.
		o.metrics.Turns.WithLabelValues("apology").Inc()
		return Reply{Text: EmptyInputReply, Lang: langid.LangHindi}
	}

	turnStart := time.Now()
	defer func() {
		o.metrics.ObserveTurnLatency(time.Since(turnStart))
		o.stages.Observe("turn_total", time.Since(turnStart))
	}()

	start := time.Now()
	lang := o.detector.Detect(userText)
	o.stages.Observe("detect", time.Since(start))
	o.metrics.DetectedLanguages.WithLabelValues(string(lang)).Inc()

	start = time.Now()
	if res, ok := o.router.Match(userText, lang); ok {
		o.stages.Observe("command", time.Since(start))
		o.metrics.CommandMatches.WithLabelValues(string(res.Intent)).Inc()
		o.metrics.Turns.WithLabelValues("command").Inc()

		text := res.Reply
		if lang != langid.LangEnglish && !langid.ContainsDevanagari(text) {
			start = time.Now()
			text = o.gateway.FromEnglish(ctx, text, lang)
			o.stages.Observe("translate_out", time.Since(start))
		}
		o.persist(ctx, memory.RoleAssistant, text)
		return Reply{Text: text, Lang: lang, Intent: res.Intent}
	}
	o.stages.Observe("command", time.Since(start))

	// No command matched: answer through the pivot-language generation path.
	contextTurns := o.recent(ctx)
	o.persist(ctx, memory.RoleUser, userText)

	start = time.Now()
	englishQuery := o.gateway.ToEnglish(ctx, userText, lang)
	o.stages.Observe("translate_in", time.Since(start))

	start = time.Now()
	answer := o.generator.Generate(ctx, englishQuery, contextTurns)
	o.stages.Observe("generate", time.Since(start))
	if o.generator.Degraded() {
		o.stages.ObserveIndicator("generation_degraded")
		o.metrics.BackendErrors.WithLabelValues("brain", "none").Inc()
	}

	start = time.Now()
	text := o.gateway.FromEnglish(ctx, answer, lang)
	o.stages.Observe("translate_out", time.Since(start))

	o.persist(ctx, memory.RoleAssistant, text)
	o.metrics.Turns.WithLabelValues("generated").Inc()
	return Reply{Text: text, Lang: lang}
}

// History returns up to n recent persisted turns for the UI boundary.
func (o *Orchestrator) History(ctx context.Context, n int) []memory.Turn {
	if n <= 0 || n > o.historyLimit {
		n = o.historyLimit
	}
	turns, err := o.store.Recent(ctx, n)
	if err != nil {
		log.Printf("assistant: reading history failed, treating as empty: %v", err)
		return nil
	}
	return turns
}

// SynthesizeReply renders a reply to audio bytes for wire delivery. Returns
// nils when synthesis is unavailable.
func (o *Orchestrator) SynthesizeReply(ctx context.Context, r Reply) ([]byte, string) {
	if o.speaker == nil {
		return nil, ""
	}
	return o.speaker.SynthesizeToBytes(ctx, r.Text, r.Lang)
}

func (o *Orchestrator) recent(ctx context.Context) []memory.Turn {
	turns, err := o.store.Recent(ctx, o.historyLimit)
	if err != nil {
		log.Printf("assistant: reading context failed, generating without it: %v", err)
		return nil
	}
	return turns
}

func (o *Orchestrator) persist(ctx context.Context, role memory.Role, text string) {
	start := time.Now()
	if err := o.store.Append(ctx, memory.Turn{Role: role, Text: text, Timestamp: time.Now().Unix()}); err != nil {
		log.Printf("assistant: persisting %s turn failed: %v", role, err)
		o.metrics.BackendErrors.WithLabelValues("memory", "store").Inc()
	}
	o.stages.Observe("persist", time.Since(start))
}

// speak voices a reply in the background so the caller gets its reply text
// without waiting on playback.
func (o *Orchestrator) speak(r Reply) {
	if o.speaker == nil || r.Text == "" {
		return
	}
	go func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		o.speaker.Speak(ctx, r.Text, r.Lang)
		o.stages.Observe("speak", time.Since(start))
	}()
}
