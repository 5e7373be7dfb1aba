// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape extracts the responses of one speaker from an HTML chat
// export, where each message element names its speaker in a
// data-message-author-role attribute. It does not use the plain-text
// transcript parser.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/convo/internal/httputil"
	"github.com/pdiddy/convo/pkg/types"
)

const (
	// AuthorRoleAttr is the attribute naming a message element's speaker.
	AuthorRoleAttr = "data-message-author-role"
	// DefaultRole is the attribute value collected when none is configured.
	DefaultRole = "assistant"
	// DefaultOutput is the output file name when none is configured.
	DefaultOutput = "responses.txt"
)

var (
	// ErrNoHTMLFile is returned by FindHTMLFile when dir has no .html file.
	ErrNoHTMLFile = errors.New("no HTML file found")
	// ErrMissingSource is returned when a local source file does not exist.
	ErrMissingSource = errors.New("source file does not exist")
)

// skipText lists elements whose text is never part of a response.
var skipText = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Extract parses the HTML document in r and returns the text of every
// element whose AuthorRoleAttr equals role, in document order. The text of
// an element is its descendant text nodes, each trimmed, joined by "\n".
// Elements with no text are dropped. contentType, when known, selects the
// character set.
func Extract(r io.Reader, contentType, role string) ([]string, error) {
	if role == "" {
		role = DefaultRole
	}
	utf8, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	doc, err := html.Parse(utf8)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasAttr(n, AuthorRoleAttr, role) {
			if text := nodeText(n); text != "" {
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func hasAttr(n *html.Node, key, val string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key && a.Val == val {
			return true
		}
	}
	return false
}

// nodeText joins the trimmed, non-empty text nodes below n with newlines.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			if skipText[n.DataAtom] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, "\n")
}

// Write writes each response followed by a blank line.
func Write(w io.Writer, responses []string) error {
	for _, r := range responses {
		if _, err := io.WriteString(w, r+"\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// FindHTMLFile returns the first file in dir, in lexical order, whose name
// ends in ".html".
func FindHTMLFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".html") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoHTMLFile, dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// IsURL reports whether src names an http or https resource.
func IsURL(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Scraper loads a source document and writes the extracted responses.
type Scraper struct {
	// Client fetches URL sources. Nil uses a default client.
	Client *http.Client
	// Dir is searched for an .html file when no source is given.
	Dir string
}

// Result holds the outcome of Scraper.File.
type Result struct {
	Source     string
	OutputPath string
	Responses  int
}

// Open returns the bytes and content type of src, fetching URLs over HTTP.
func (s *Scraper) Open(ctx context.Context, src string) ([]byte, string, error) {
	if IsURL(src) {
		page, err := httputil.Get(ctx, s.Client, src)
		if err != nil {
			return nil, "", err
		}
		return page.Body, page.ContentType, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", src, ErrMissingSource)
		}
		return nil, "", fmt.Errorf("reading %s: %w", src, err)
	}
	return data, "text/html", nil
}

// File extracts cfg.Role responses from cfg.Source (or the first .html file
// in s.Dir) and writes them to cfg.OutputPath. When no HTML file exists or
// no responses are found a notice goes to w and nothing is written.
func (s *Scraper) File(ctx context.Context, cfg types.ScrapeConfig, w io.Writer) (Result, error) {
	res := Result{Source: cfg.Source, OutputPath: cfg.OutputPath}
	if res.OutputPath == "" {
		res.OutputPath = DefaultOutput
	}

	if res.Source == "" {
		dir := s.Dir
		if dir == "" {
			dir = "."
		}
		found, err := FindHTMLFile(dir)
		if errors.Is(err, ErrNoHTMLFile) {
			fmt.Fprintln(w, "No HTML file found in the current directory.")
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res.Source = found
	}

	data, contentType, err := s.Open(ctx, res.Source)
	if err != nil {
		return res, err
	}

	responses, err := Extract(bytes.NewReader(data), contentType, cfg.Role)
	if err != nil {
		return res, fmt.Errorf("extracting from %s: %w", res.Source, err)
	}
	res.Responses = len(responses)
	if res.Responses == 0 {
		fmt.Fprintln(w, "No responses found in the HTML file.")
		return res, nil
	}

	var buf bytes.Buffer
	if err := Write(&buf, responses); err != nil {
		return res, err
	}
	if err := os.WriteFile(res.OutputPath, buf.Bytes(), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", res.OutputPath, err)
	}
	fmt.Fprintf(w, "Extracted %d responses and wrote them to %s\n", res.Responses, res.OutputPath)
	return res, nil
}
