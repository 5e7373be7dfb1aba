// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convo/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.ArchiveConfig{Dir: filepath.Join(t.TempDir(), "archive"), MaxResults: 10})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	modTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	chatA = []types.Message{
		{Role: types.RoleUser, Content: "How do channels work?\nI am new to Go."},
		{Role: types.RoleAssistant, Content: "Channels pass values between goroutines."},
		{Role: types.RoleUser, Content: "And buffered CHANNELS?"},
	}
	chatB = []types.Message{
		{Role: types.RoleUser, Content: "Explain maps"},
		{Role: types.RoleAssistant, Content: "Maps are hash tables; see also channels."},
	}
)

func TestConversationID(t *testing.T) {
	id := ConversationID(filepath.Join("dir", "My Chat.txt"))
	assert.True(t, strings.HasPrefix(id, "my-chat-"), id)
	assert.Len(t, id, len("my-chat-")+8)

	abs, err := filepath.Abs("conversation.txt")
	require.NoError(t, err)
	assert.Equal(t, ConversationID(abs), ConversationID("conversation.txt"))
	assert.NotEqual(t, ConversationID(filepath.Join("a", "chat.txt")), ConversationID(filepath.Join("b", "chat.txt")))
}

func TestAdd_SameNameDifferentDirectories(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	root := t.TempDir()
	alpha := []types.Message{{Role: types.RoleUser, Content: "alpha"}}
	beta := []types.Message{{Role: types.RoleUser, Content: "beta"}}

	idA, status, err := s.Add(ctx, filepath.Join(root, "projA", "chat.txt"), modTime, alpha)
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, status)

	// Same mod time on purpose: a different file must not be skipped.
	idB, status, err := s.Add(ctx, filepath.Join(root, "projB", "chat.txt"), modTime, beta)
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, status)
	assert.NotEqual(t, idA, idB)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	for _, q := range []string{"alpha", "beta"} {
		hits, err := s.Search(ctx, SearchOptions{Query: q})
		require.NoError(t, err)
		assert.Len(t, hits, 1, q)
	}
}

func TestAdd_Incremental(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, status, err := s.Add(ctx, "chat-a.txt", modTime, chatA)
	require.NoError(t, err)
	assert.Equal(t, ConversationID("chat-a.txt"), id)
	assert.Equal(t, StatusAdded, status)

	_, status, err = s.Add(ctx, "chat-a.txt", modTime, chatA)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status)

	_, status, err = s.Add(ctx, "chat-a.txt", modTime.Add(time.Minute), chatA[:2])
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, status)

	msgs, err := s.Messages(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, chatA[:2], msgs)
}

func TestListAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	idB, _, err := s.Add(ctx, "b.txt", modTime, chatB)
	require.NoError(t, err)
	idA, _, err := s.Add(ctx, "a.txt", modTime, chatA)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, idA, list[0].ID)
	assert.Equal(t, 3, list[0].Messages)
	assert.Equal(t, "How do channels work?", list[0].Title)
	assert.Equal(t, idB, list[1].ID)

	c, err := s.Get(ctx, idB)
	require.NoError(t, err)
	wantSource, err := filepath.Abs("b.txt")
	require.NoError(t, err)
	assert.Equal(t, wantSource, c.SourcePath)
	assert.Equal(t, 2, c.Messages)
	assert.False(t, c.ImportedAt.IsZero())

	_, err = s.Get(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Messages(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	idA, _, err := s.Add(ctx, "a.txt", modTime, chatA)
	require.NoError(t, err)
	idB, _, err := s.Add(ctx, "b.txt", modTime, chatB)
	require.NoError(t, err)
	idC, _, err := s.Add(ctx, "c.txt", modTime, []types.Message{{Role: types.RoleUser, Content: "ÄPFEL und Birnen"}})
	require.NoError(t, err)
	short := map[string]string{idA: "a", idB: "b", idC: "c"}

	tests := []struct {
		name string
		opts SearchOptions
		want []string // "conversation/seq"
	}{
		{name: "case-insensitive query", opts: SearchOptions{Query: "channels"}, want: []string{"a/0", "a/1", "a/2", "b/1"}},
		{name: "role filter", opts: SearchOptions{Query: "channels", Role: types.RoleUser}, want: []string{"a/0", "a/2"}},
		{name: "conversation filter", opts: SearchOptions{ConversationID: idB}, want: []string{"b/0", "b/1"}},
		{name: "limit", opts: SearchOptions{Query: "channels", Limit: 1}, want: []string{"a/0"}},
		{name: "unicode case folding", opts: SearchOptions{Query: "äpfel"}, want: []string{"c/0"}},
		{name: "no match", opts: SearchOptions{Query: "generics"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Search(ctx, tt.opts)
			require.NoError(t, err)
			var got []string
			for _, h := range hits {
				got = append(got, short[h.ConversationID]+"/"+string(rune('0'+h.Seq)))
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, SearchOptions{}.IsEmpty())
	assert.False(t, SearchOptions{Role: types.RoleUser}.IsEmpty())
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	id, _, err := s.Add(ctx, "b.txt", modTime, chatB)
	require.NoError(t, err)

	var yb bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, id, &yb))
	var fromYAML Export
	require.NoError(t, yaml.Unmarshal(yb.Bytes(), &fromYAML))
	assert.Equal(t, id, fromYAML.ID)
	assert.Equal(t, chatB, fromYAML.Transcript)

	var jb bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, id, &jb))
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(jb.Bytes(), &fromJSON))
	assert.Equal(t, id, fromJSON["id"])
	assert.Len(t, fromJSON["transcript"], 2)

	assert.ErrorIs(t, s.ExportYAML(ctx, "missing", &yb), ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	id, _, err := s.Add(ctx, "a.txt", modTime, chatA)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	hits, err := s.Search(ctx, SearchOptions{ConversationID: id})
	require.NoError(t, err)
	assert.Empty(t, hits)

	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}
