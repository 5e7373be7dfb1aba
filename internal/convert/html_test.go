// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convo/pkg/types"
)

var goldenMessages = []types.Message{
	{Role: types.RoleUser, Content: "Hello <there> & welcome"},
	{Role: types.RoleAssistant, Content: "Hi there!\nHow can I help?"},
}

func renderHTML(t *testing.T, style types.HTMLStyle, msgs []types.Message) string {
	t.Helper()
	r, err := NewHTMLRenderer(style)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), msgs, &buf))
	return buf.String()
}

func TestHTMLRenderer_ScreenGolden(t *testing.T) {
	golden.RequireEqual(t, renderHTML(t, types.StyleScreen, goldenMessages))
}

func TestHTMLRenderer_PrintGolden(t *testing.T) {
	golden.RequireEqual(t, renderHTML(t, types.StylePrint, goldenMessages))
}

func TestHTMLRenderer_BlocksAndEscaping(t *testing.T) {
	msgs := []types.Message{
		{Role: types.RoleUser, Content: "Hello"},
		{Role: types.RoleAssistant, Content: "if a < b && b > c {\n  return \"x\"\n}"},
	}
	out := renderHTML(t, "", msgs)

	assert.Equal(t, 1, strings.Count(out, `<div class="message user">`))
	assert.Equal(t, 1, strings.Count(out, `<div class="message assistant">`))
	assert.Contains(t, out, "<strong>User:</strong>")
	assert.Contains(t, out, "<strong>Assistant:</strong>")
	assert.Contains(t, out, "if a &lt; b &amp;&amp; b &gt; c {<br>  return &#34;x&#34;<br>}")
	assert.NotContains(t, out, "a < b")
}

func TestHTMLRenderer_UnknownStyle(t *testing.T) {
	_, err := NewHTMLRenderer("neon")
	assert.ErrorContains(t, err, `unknown HTML style "neon"`)
}

func TestHTMLRenderer_Ext(t *testing.T) {
	r, err := NewHTMLRenderer(types.StylePrint)
	require.NoError(t, err)
	assert.Equal(t, ".html", r.Ext())
}
