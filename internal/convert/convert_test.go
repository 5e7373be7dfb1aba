// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convo/internal/transcript"
	"github.com/pdiddy/convo/pkg/types"
)

// fakeRenderer implements Renderer for testing. It writes one line per
// message or returns a canned error.
type fakeRenderer struct {
	err  error
	seen []types.Message
}

func (f *fakeRenderer) Ext() string { return ".fake" }

func (f *fakeRenderer) Render(_ context.Context, msgs []types.Message, w io.Writer) error {
	f.seen = msgs
	if f.err != nil {
		return f.err
	}
	for _, m := range msgs {
		fmt.Fprintf(w, "%s=%s\n", m.Role, m.Content)
	}
	return nil
}

// writeTranscript creates a transcript file in a temp dir and returns its path.
func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversation.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFile(t *testing.T) {
	in := writeTranscript(t, "User:\nHello\n\n---\n\nAssistant:\nHi there!\n\n---\n\nBot:\nignored\n")
	r := &fakeRenderer{}
	var log bytes.Buffer

	res, err := File(context.Background(), r, in, "", transcript.ParseOptions{}, &log)
	require.NoError(t, err)

	wantOut := transcript.OutputPath(in, ".fake")
	assert.Equal(t, Result{Status: StatusWritten, OutputPath: wantOut, Messages: 2, Skipped: 1}, res)

	data, err := os.ReadFile(wantOut)
	require.NoError(t, err)
	assert.Equal(t, "User=Hello\nAssistant=Hi there!\n", string(data))

	assert.Contains(t, log.String(), "Skipped 1 malformed or unrecognized block(s)")
	assert.Contains(t, log.String(), "FAKE file has been generated at "+wantOut)
}

func TestFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.html")
	var log bytes.Buffer

	_, err := File(context.Background(), &fakeRenderer{}, filepath.Join(dir, "nope.txt"), out, transcript.ParseOptions{}, &log)
	require.Error(t, err)
	assert.ErrorIs(t, err, transcript.ErrMissingInput)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output should be written")
}

func TestFile_NoMessages(t *testing.T) {
	in := writeTranscript(t, "just text without any roles")
	out := filepath.Join(filepath.Dir(in), "out.html")
	var log bytes.Buffer

	res, err := File(context.Background(), &fakeRenderer{}, in, out, transcript.ParseOptions{}, &log)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, res.Status)
	assert.Contains(t, log.String(), "No valid messages found")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFile_RenderFailureLeavesExistingOutput(t *testing.T) {
	in := writeTranscript(t, "User:\nHello\n")
	out := filepath.Join(filepath.Dir(in), "out.html")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	_, err := File(context.Background(), &fakeRenderer{err: errors.New("boom")}, in, out, transcript.ParseOptions{}, io.Discard)
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestFile_PrefixMatch(t *testing.T) {
	in := writeTranscript(t, "user 1:\nq\n---\nassistantxyz:\na\n")
	r := &fakeRenderer{}

	res, err := File(context.Background(), r, in, "", transcript.ParseOptions{Match: types.MatchPrefix}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Messages)
	assert.Equal(t, types.RoleAssistant, r.seen[1].Role)
}

func TestFile_HTMLEndToEnd(t *testing.T) {
	in := writeTranscript(t, "User:\nHello\n---\nAssistant:\nHi there!\nHow can I help?\n")
	r, err := NewHTMLRenderer(types.StyleScreen)
	require.NoError(t, err)

	res, err := File(context.Background(), r, in, "", transcript.ParseOptions{}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(in), "conversation.html"), res.OutputPath)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<div class="message user">`)
	assert.Contains(t, string(data), `<div class="message assistant">`)
	assert.Contains(t, string(data), "Hi there!<br>How can I help?")
}
