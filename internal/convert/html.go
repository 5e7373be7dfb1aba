// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/pdiddy/convo/pkg/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const defaultTitle = "Conversation"

// HTMLRenderer renders messages as a single static HTML page. Each message
// becomes a block with CSS classes "message" and the lowercase role.
type HTMLRenderer struct {
	style types.HTMLStyle
	title string
	tmpl  *template.Template
}

// NewHTMLRenderer parses the embedded template for style. An empty style
// selects StyleScreen.
func NewHTMLRenderer(style types.HTMLStyle) (*HTMLRenderer, error) {
	if style == "" {
		style = types.StyleScreen
	}
	switch style {
	case types.StyleScreen, types.StylePrint:
	default:
		return nil, fmt.Errorf("unknown HTML style %q: use screen or print", style)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/"+string(style)+".html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", style, err)
	}
	return &HTMLRenderer{style: style, title: defaultTitle, tmpl: tmpl}, nil
}

// Ext returns ".html".
func (h *HTMLRenderer) Ext() string { return ".html" }

type pageData struct {
	Title    string
	Messages []messageView
}

type messageView struct {
	Role  types.Role
	Class string
	Body  template.HTML
}

// Render writes the page for msgs to w.
func (h *HTMLRenderer) Render(_ context.Context, msgs []types.Message, w io.Writer) error {
	data := pageData{Title: h.title, Messages: make([]messageView, len(msgs))}
	for i, m := range msgs {
		data.Messages[i] = messageView{
			Role:  m.Role,
			Class: m.Role.Class(),
			Body:  bodyHTML(m.Content),
		}
	}
	if err := h.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering %s HTML: %w", h.style, err)
	}
	return nil
}

// bodyHTML escapes HTML-significant characters in content and turns line
// breaks into <br> markers.
func bodyHTML(content string) template.HTML {
	escaped := template.HTMLEscapeString(content)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
