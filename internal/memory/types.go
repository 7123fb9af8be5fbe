package memory

import "context"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one recorded utterance in conversation history. Immutable once
// recorded.
type Turn struct {
	ID        string `json:"id,omitempty"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"`
}

// Store persists a capacity-bounded rolling conversation history. Oldest
// turns are evicted first when the bound is exceeded.
type Store interface {
	Append(ctx context.Context, turn Turn) error
	Recent(ctx context.Context, n int) ([]Turn, error)
	Close() error
}
