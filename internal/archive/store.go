// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps parsed transcripts in a local SQLite database so
// they can be searched and exported after the source file is gone.
package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"

	"github.com/pdiddy/convo/pkg/types"
)

const (
	dbFile            = "transcripts.db"
	defaultMaxResults = 20

	// driverName is go-sqlite3 with the casefold SQL function registered.
	driverName = "sqlite3_convo"
)

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", foldCase, true)
		},
	})
}

// foldCase applies Unicode case folding, so "Äpfel" and "äpfel" compare
// equal. SQLite's own lower() only folds ASCII.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

// ErrNotFound is returned when a conversation ID is not in the archive.
var ErrNotFound = errors.New("conversation not found")

// Store manages the archive SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates dir/transcripts.db and its schema.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "archive"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open(driverName, filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			title TEXT,
			file_mod_time TEXT,
			imported_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (conversation_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_role ON messages(role)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Conversation is one archived transcript.
type Conversation struct {
	ID         string    `json:"id" yaml:"id"`
	SourcePath string    `json:"source_path" yaml:"source_path"`
	Title      string    `json:"title" yaml:"title"`
	ImportedAt time.Time `json:"imported_at" yaml:"imported_at"`
	Messages   int       `json:"messages" yaml:"messages"`
}

// AddStatus reports what Add did.
type AddStatus string

const (
	StatusAdded   AddStatus = "added"
	StatusUpdated AddStatus = "updated"
	StatusSkipped AddStatus = "skipped"
)

// ConversationID derives the archive ID from a source path: the lowercase
// base name without extension, spaces replaced by dashes, followed by a
// short hash of the absolute path. Files with the same name in different
// directories get different IDs.
func ConversationID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(base)), " ", "-")
	sum := sha256.Sum256([]byte(absPath(path)))
	return slug + "-" + hex.EncodeToString(sum[:4])
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Add stores msgs under the ID derived from sourcePath. When the
// conversation exists with the same modTime it is skipped; otherwise its
// messages are replaced. The stored source path is absolute.
func (s *Store) Add(ctx context.Context, sourcePath string, modTime time.Time, msgs []types.Message) (string, AddStatus, error) {
	id := ConversationID(sourcePath)
	sourcePath = absPath(sourcePath)
	mod := modTime.UTC().Format(time.RFC3339Nano)

	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM conversations WHERE id = ?`, id,
	).Scan(&stored)
	switch {
	case err == nil && stored == mod:
		return id, StatusSkipped, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return id, "", fmt.Errorf("looking up %s: %w", id, err)
	}
	status := StatusAdded
	if err == nil {
		status = StatusUpdated
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return id, "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return id, "", fmt.Errorf("deleting old messages: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, source_path, title, file_mod_time, imported_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_path=excluded.source_path, title=excluded.title,
			file_mod_time=excluded.file_mod_time, imported_at=excluded.imported_at`,
		id, sourcePath, title(msgs), mod, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return id, "", fmt.Errorf("upserting conversation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (conversation_id, seq, role, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return id, "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range msgs {
		if _, err := stmt.ExecContext(ctx, id, i, string(m.Role), m.Content); err != nil {
			return id, "", fmt.Errorf("inserting message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return id, "", fmt.Errorf("committing %s: %w", id, err)
	}
	return id, status, nil
}

// title is the first line of the first user message, shortened.
func title(msgs []types.Message) string {
	for _, m := range msgs {
		if m.Role != types.RoleUser {
			continue
		}
		line, _, _ := strings.Cut(m.Content, "\n")
		if r := []rune(line); len(r) > 80 {
			return string(r[:77]) + "..."
		}
		return line
	}
	return ""
}

// List returns all conversations ordered by ID.
func (s *Store) List(ctx context.Context) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.source_path, c.title, c.imported_at, COUNT(m.seq)
		 FROM conversations c
		 LEFT JOIN messages m ON m.conversation_id = c.id
		 GROUP BY c.id
		 ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns one conversation's metadata.
func (s *Store) Get(ctx context.Context, id string) (Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT c.id, c.source_path, c.title, c.imported_at,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
		 FROM conversations c WHERE c.id = ?`, id)
	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(sc scanner) (Conversation, error) {
	var (
		c        Conversation
		title    sql.NullString
		imported string
	)
	if err := sc.Scan(&c.ID, &c.SourcePath, &title, &imported, &c.Messages); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scanning conversation: %w", err)
	}
	c.Title = title.String
	c.ImportedAt, _ = time.Parse(time.RFC3339, imported)
	return c, nil
}

// Messages returns the messages of conversation id in their original order.
func (s *Store) Messages(ctx context.Context, id string) ([]types.Message, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE conversation_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("loading messages for %s: %w", id, err)
	}
	defer rows.Close()

	var msgs []types.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, types.Message{Role: types.Role(role), Content: content})
	}
	return msgs, rows.Err()
}

// Delete removes a conversation and its messages.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}
