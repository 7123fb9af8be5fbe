package memory

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when configured, otherwise the
// JSON file store at path.
func NewStore(ctx context.Context, databaseURL, path string, limit int) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewFileStore(path, limit), nil
	}
	return NewPostgresStore(ctx, databaseURL, limit)
}
