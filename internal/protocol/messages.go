// Package protocol defines the websocket payloads exchanged with chat
// clients.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeUserText       MessageType = "user_text"
	TypeAssistantReply MessageType = "assistant_reply"
	TypeAssistantAudio MessageType = "assistant_audio"
	TypeErrorEvent     MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// UserText is a typed user turn submitted by the client.
type UserText struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// AssistantReply carries the assistant's text answer for one turn.
type AssistantReply struct {
	Type   MessageType `json:"type"`
	TurnID string      `json:"turn_id"`
	Text   string      `json:"text"`
	Lang   string      `json:"lang"`
	Intent string      `json:"intent,omitempty"`
}

// AssistantAudio carries the synthesized reply audio, when available.
type AssistantAudio struct {
	Type        MessageType `json:"type"`
	TurnID      string      `json:"turn_id"`
	Format      string      `json:"format"`
	AudioBase64 string      `json:"audio_base64"`
}

// ErrorEvent reports a per-turn failure such as a busy rejection.
type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail,omitempty"`
}

// ParseClientMessage decodes and validates an inbound client payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeUserText:
		var msg UserText
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
