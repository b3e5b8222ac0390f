// Package archive persists conversation transcripts to SQLite so
// support exchanges survive process restarts and can be inspected
// later. The agent's own working history stays in memory; the archive
// is write-mostly.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/agent"
)

// Store is a SQLite-backed transcript archive.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the archive database at dbPath.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		thread_id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		thread_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		content TEXT NOT NULL,
		tool_call_id TEXT,
		is_error BOOLEAN DEFAULT FALSE,
		total_tokens INTEGER DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (thread_id) REFERENCES conversations(thread_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends committed conversation turns to the archive. It
// implements agent.Archiver; failures are logged, never surfaced, so
// archiving cannot break a live conversation.
func (s *Store) Record(ctx context.Context, threadID string, userID int, msgs []agent.Message) {
	now := time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (thread_id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET updated_at = excluded.updated_at`,
		threadID, userID, now, now)
	if err != nil {
		s.logger.Warn("archive conversation upsert failed", "threadID", threadID, "error", err)
		return
	}

	for _, m := range msgs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO messages (id, thread_id, kind, content, tool_call_id, is_error, total_tokens, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), threadID, m.Kind.String(), m.Content,
			m.ToolCallID, m.IsError, m.TotalTokens, now)
		if err != nil {
			s.logger.Warn("archive message insert failed", "threadID", threadID, "error", err)
			return
		}
	}
}

// ArchivedMessage is one stored transcript entry.
type ArchivedMessage struct {
	Kind        string
	Content     string
	ToolCallID  string
	IsError     bool
	TotalTokens int
	CreatedAt   time.Time
}

// Transcript returns all archived messages of a thread in order.
func (s *Store) Transcript(ctx context.Context, threadID string) ([]ArchivedMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, content, tool_call_id, is_error, total_tokens, created_at
		FROM messages WHERE thread_id = ? ORDER BY created_at, rowid`, threadID)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	var out []ArchivedMessage
	for rows.Next() {
		var m ArchivedMessage
		var toolCallID sql.NullString
		if err := rows.Scan(&m.Kind, &m.Content, &toolCallID, &m.IsError, &m.TotalTokens, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		m.ToolCallID = toolCallID.String
		out = append(out, m)
	}
	return out, rows.Err()
}

// Conversation summarizes one archived thread.
type Conversation struct {
	ThreadID  string
	UserID    int
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  int
}

// RecentConversations lists archived threads, most recently active
// first.
func (s *Store) RecentConversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.thread_id, c.user_id, c.created_at, c.updated_at, COUNT(m.id)
		FROM conversations c
		LEFT JOIN messages m ON m.thread_id = c.thread_id
		GROUP BY c.thread_id
		ORDER BY c.updated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ThreadID, &c.UserID, &c.CreatedAt, &c.UpdatedAt, &c.Messages); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
