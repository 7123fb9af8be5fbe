package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, limit int) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "memory.json"), limit)
}

func TestFileStoreFIFOEviction(t *testing.T) {
	const limit = 6
	s := newTestStore(t, limit)
	ctx := context.Background()

	const total = 10
	for i := 0; i < total; i++ {
		err := s.Append(ctx, Turn{Role: RoleUser, Text: fmt.Sprintf("turn-%d", i)})
		if err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	got, err := s.Recent(ctx, limit)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != limit {
		t.Fatalf("len(Recent) = %d, want %d", len(got), limit)
	}
	for i, turn := range got {
		want := fmt.Sprintf("turn-%d", total-limit+i)
		if turn.Text != want {
			t.Fatalf("Recent[%d].Text = %q, want %q", i, turn.Text, want)
		}
	}
}

func TestFileStoreRecentFewerThanN(t *testing.T) {
	s := newTestStore(t, 6)
	ctx := context.Background()

	if err := s.Append(ctx, Turn{Role: RoleAssistant, Text: "only one"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := s.Recent(ctx, 4)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "only one" {
		t.Fatalf("Recent(4) = %+v, want the single stored turn", got)
	}
}

func TestFileStoreAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t, 6)
	ctx := context.Background()

	if err := s.Append(ctx, Turn{Role: RoleUser, Text: "hello"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if got[0].ID == "" {
		t.Fatalf("stored turn has empty ID")
	}
	if got[0].Timestamp == 0 {
		t.Fatalf("stored turn has zero timestamp")
	}
}

func TestFileStoreCorruptDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	s := NewFileStore(path, 6)
	ctx := context.Background()

	got, err := s.Recent(ctx, 6)
	if err != nil {
		t.Fatalf("Recent() on corrupt file error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Recent() on corrupt file = %+v, want empty", got)
	}

	if err := s.Append(ctx, Turn{Role: RoleUser, Text: "fresh start"}); err != nil {
		t.Fatalf("Append() after corruption error = %v", err)
	}
	got, err = s.Recent(ctx, 6)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "fresh start" {
		t.Fatalf("Recent() after recovery = %+v, want single fresh turn", got)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "does", "not", "exist.json"), 6)
	got, err := s.Recent(context.Background(), 6)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Recent() = %+v, want empty for missing file", got)
	}
}

func TestNewStoreDefaultsToFile(t *testing.T) {
	s, err := NewStore(context.Background(), "", filepath.Join(t.TempDir(), "m.json"), 6)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("NewStore(\"\") = %T, want *FileStore", s)
	}
}
