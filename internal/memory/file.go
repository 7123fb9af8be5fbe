package memory

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// document is the persisted on-disk shape: a single object with a capped
// history array, overwritten wholesale on each append.
type document struct {
	History []Turn `json:"history"`
}

// FileStore keeps the rolling history in one small JSON document. Each
// append is a read-modify-write of the whole file; an unreadable or corrupt
// document is treated as an empty history rather than an error. The mutex
// only serializes appends within this process; concurrent writers from other
// processes sharing the file can still race.
type FileStore struct {
	mu    sync.Mutex
	path  string
	limit int
}

const DefaultLimit = 6

func NewFileStore(path string, limit int) *FileStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &FileStore{path: path, limit: limit}
}

// Limit returns the history capacity.
func (s *FileStore) Limit() int { return s.limit }

func (s *FileStore) Append(_ context.Context, turn Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp == 0 {
		turn.Timestamp = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	doc.History = append(doc.History, turn)
	if len(doc.History) > s.limit {
		doc.History = doc.History[len(doc.History)-s.limit:]
	}
	return s.save(doc)
}

func (s *FileStore) Recent(_ context.Context, n int) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.load().History
	if n <= 0 || n > len(history) {
		n = len(history)
	}
	out := make([]Turn, n)
	copy(out, history[len(history)-n:])
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() document {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return document{}
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("memory: unreadable history document %s, starting empty: %v", s.path, err)
		return document{}
	}
	return doc
}

func (s *FileStore) save(doc document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}
