package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the rolling history in PostgreSQL. Appends trim the
// table down to the capacity so it stays equivalent to the file document.
type PostgresStore struct {
	pool  *pgxpool.Pool
	limit int
}

func NewPostgresStore(ctx context.Context, databaseURL string, limit int) (*PostgresStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool, limit: limit}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversation_turns (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			ts BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversation_turns_seq ON conversation_turns (seq);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, turn Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp == 0 {
		turn.Timestamp = time.Now().Unix()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversation_turns (id, role, text, ts) VALUES ($1, $2, $3, $4)`,
		turn.ID, string(turn.Role), turn.Text, turn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}

	// FIFO eviction: keep only the newest limit rows.
	_, err = s.pool.Exec(ctx,
		`DELETE FROM conversation_turns WHERE seq NOT IN (
			SELECT seq FROM conversation_turns ORDER BY seq DESC LIMIT $1
		)`,
		s.limit,
	)
	if err != nil {
		return fmt.Errorf("evict old turns: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, n int) ([]Turn, error) {
	if n <= 0 || n > s.limit {
		n = s.limit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, role, text, ts FROM conversation_turns ORDER BY seq DESC LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent turns: %w", err)
	}
	defer rows.Close()

	turns := make([]Turn, 0, n)
	for rows.Next() {
		var t Turn
		var role string
		if err := rows.Scan(&t.ID, &role, &t.Text, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		t.Role = Role(role)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows: %w", err)
	}

	// Reverse into chronological order for prompt coherence.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
