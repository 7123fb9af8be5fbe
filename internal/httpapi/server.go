package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/omkarw/bestbuddy/internal/assistant"
	"github.com/omkarw/bestbuddy/internal/config"
	"github.com/omkarw/bestbuddy/internal/memory"
	"github.com/omkarw/bestbuddy/internal/observability"
	"github.com/omkarw/bestbuddy/internal/protocol"
	"github.com/omkarw/bestbuddy/internal/session"
)

// Assistant is the turn pipeline the HTTP boundary drives.
type Assistant interface {
	Process(ctx context.Context, text string) (assistant.Reply, error)
	ProcessVoice(ctx context.Context) (string, assistant.Reply, error)
	History(ctx context.Context, n int) []memory.Turn
	SynthesizeReply(ctx context.Context, r assistant.Reply) ([]byte, string)
	Busy() bool
}

type Server struct {
	cfg       config.Config
	assistant Assistant
	metrics   *observability.Metrics
	stages    *observability.StageWindow
	upgrader  websocket.Upgrader
}

func New(cfg config.Config, a Assistant, metrics *observability.Metrics, stages *observability.StageWindow) *Server {
	return &Server{
		cfg:       cfg,
		assistant: a,
		metrics:   metrics,
		stages:    stages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so other websites cannot drive the assistant
				// if it is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/turns", s.handleTurn)
	r.Post("/v1/listen", s.handleListen)
	r.Get("/v1/history", s.handleHistory)
	r.Get("/v1/perf/turns", s.handlePerfTurns)
	r.Get("/v1/chat/ws", s.handleChatWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"busy":   s.assistant.Busy(),
	})
}

type turnRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	reply, err := s.assistant.Process(r.Context(), strings.TrimSpace(req.Text))
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			respondError(w, http.StatusConflict, "busy", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "turn_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

type listenResponse struct {
	Heard string `json:"heard"`
	Reply string `json:"reply"`
	Lang  string `json:"lang"`
}

func (s *Server) handleListen(w http.ResponseWriter, r *http.Request) {
	heard, reply, err := s.assistant.ProcessVoice(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			respondError(w, http.StatusConflict, "busy", err.Error())
			return
		}
		respondError(w, http.StatusServiceUnavailable, "capture_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, listenResponse{
		Heard: heard,
		Reply: reply.Text,
		Lang:  string(reply.Lang),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid_n", "query parameter n must be a non-negative integer")
			return
		}
		n = parsed
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"turns": s.assistant.History(r.Context(), n),
	})
}

func (s *Server) handlePerfTurns(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.stages.Snapshot())
}

func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	// One turn at a time per connection. The read loop is the only writer,
	// so websocket writes stay single-threaded.
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}

		userText, ok := parsed.(protocol.UserText)
		if !ok {
			continue
		}

		reply, err := s.assistant.Process(ctx, strings.TrimSpace(userText.Text))
		if err != nil {
			code := "turn_failed"
			if errors.Is(err, session.ErrBusy) {
				code = "busy"
			}
			s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   code,
				Detail: err.Error(),
			})
			continue
		}

		turnID := uuid.NewString()
		if !s.writeWS(conn, protocol.AssistantReply{
			Type:   protocol.TypeAssistantReply,
			TurnID: turnID,
			Text:   reply.Text,
			Lang:   string(reply.Lang),
			Intent: string(reply.Intent),
		}) {
			return
		}

		if audio, format := s.assistant.SynthesizeReply(ctx, reply); len(audio) > 0 {
			if !s.writeWS(conn, protocol.AssistantAudio{
				Type:        protocol.TypeAssistantAudio,
				TurnID:      turnID,
				Format:      format,
				AudioBase64: base64.StdEncoding.EncodeToString(audio),
			}) {
				return
			}
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(msg) == nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
