// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convo/pkg/types"
)

// SearchOptions holds parameters for archive searches.
type SearchOptions struct {
	// Query is matched as a substring of message content after Unicode case
	// folding of both sides.
	Query string

	// Role restricts results to one speaker.
	Role types.Role

	// ConversationID restricts results to one conversation.
	ConversationID string

	// Limit caps the result count. Zero uses the store default.
	Limit int
}

// IsEmpty reports whether the search has no query and no filters.
func (o SearchOptions) IsEmpty() bool {
	return o.Query == "" && o.Role == "" && o.ConversationID == ""
}

// Hit is one message matching a search.
type Hit struct {
	ConversationID string     `json:"conversation_id" yaml:"conversation_id"`
	Seq            int        `json:"seq" yaml:"seq"`
	Role           types.Role `json:"role" yaml:"role"`
	Content        string     `json:"content" yaml:"content"`
}

// Search returns matching messages ordered by conversation and position.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]Hit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT conversation_id, seq, role, content FROM messages WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND instr(casefold(content), ?) > 0`)
		args = append(args, foldCase(opts.Query))
	}
	if opts.Role != "" {
		qb.WriteString(` AND role = ?`)
		args = append(args, string(opts.Role))
	}
	if opts.ConversationID != "" {
		qb.WriteString(` AND conversation_id = ?`)
		args = append(args, opts.ConversationID)
	}
	qb.WriteString(` ORDER BY conversation_id, seq LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var role string
		if err := rows.Scan(&h.ConversationID, &h.Seq, &role, &h.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		h.Role = types.Role(role)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Export is the serialized form of one archived conversation.
type Export struct {
	Conversation `yaml:",inline"`
	Transcript   []types.Message `json:"transcript" yaml:"transcript"`
}

func (s *Store) export(ctx context.Context, id string) (Export, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Export{}, err
	}
	msgs, err := s.Messages(ctx, id)
	if err != nil {
		return Export{}, err
	}
	return Export{Conversation: c, Transcript: msgs}, nil
}

// ExportYAML writes conversation id as YAML to w.
func (s *Store) ExportYAML(ctx context.Context, id string, w io.Writer) error {
	e, err := s.export(ctx, id)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&e); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes conversation id as indented JSON to w.
func (s *Store) ExportJSON(ctx context.Context, id string, w io.Writer) error {
	e, err := s.export(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
