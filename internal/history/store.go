// Package history persists assistant conversations in a local SQLite
// database so chat context survives between runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Message roles. Tool messages carry the tool's JSON output in Content and
// the tool name in ToolName.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one stored chat line.
type Message struct {
	ID             string
	ConversationID string
	Role           string
	Content        string
	ToolName       string
	UserTurn       int
	CreatedAt      time.Time
}

// Store wraps the SQLite conversation database.
type Store struct {
	db *sql.DB
}

// Open creates the database directory if needed, opens the file, verifies
// the connection and applies pending migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// EnsureConversation creates the conversation row when absent.
func (s *Store) EnsureConversation(ctx context.Context, conversationID string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO conversations (id, last_user_turn, created_at)
VALUES (?, 0, ?)
ON CONFLICT (id) DO NOTHING
`, conversationID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ensure conversation: %w", err)
	}
	return nil
}

// NextTurn claims the next user turn number, creating the conversation on
// first use.
func (s *Store) NextTurn(ctx context.Context, conversationID string) (int, error) {
	row := s.db.QueryRowContext(ctx, `
UPDATE conversations
SET last_user_turn = last_user_turn + 1
WHERE id = ?
RETURNING last_user_turn
`, conversationID)

	var turn int
	if err := row.Scan(&turn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if ensureErr := s.EnsureConversation(ctx, conversationID); ensureErr != nil {
				return 0, ensureErr
			}
			return s.NextTurn(ctx, conversationID)
		}
		return 0, fmt.Errorf("next turn: %w", err)
	}
	return turn, nil
}

func (s *Store) AppendMessage(ctx context.Context, message Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO messages (id, conversation_id, role, content, tool_name, user_turn, created_at)
VALUES (?,?,?,?,?,?,?)
`, message.ID, message.ConversationID, message.Role, message.Content, nullableString(message.ToolName), message.UserTurn, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// RecentMessages returns the last limit messages in chronological order.
func (s *Store) RecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, conversation_id, role, content, COALESCE(tool_name, ''), user_turn, created_at
FROM messages
WHERE conversation_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	defer rows.Close()

	out := make([]Message, 0, limit)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.ToolName,
			&msg.UserTurn,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recent message: %w", err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent messages: %w", err)
	}

	// Returned newest first from SQL; reverse to chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
