// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize shortens assistant messages to their first sentences
// and writes the result back in the transcript format.
package summarize

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"

	"github.com/pdiddy/convo/internal/transcript"
	"github.com/pdiddy/convo/pkg/types"
)

// DefaultMaxSentences is the number of sentences kept when none is configured.
const DefaultMaxSentences = 3

// Segmenter splits text into sentences.
type Segmenter interface {
	Segment(text string) []string
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(text string) []string

// Segment calls f(text).
func (f SegmenterFunc) Segment(text string) []string { return f(text) }

// SentenceSegmenter finds sentence boundaries with the Unicode UAX #29
// sentence rules.
type SentenceSegmenter struct{}

// Segment returns the sentences of text, including their trailing spaces.
func (SentenceSegmenter) Segment(text string) []string {
	var out []string
	iter := sentences.FromString(text)
	for iter.Next() {
		out = append(out, iter.Value())
	}
	return out
}

// Summarizer truncates assistant content to its first MaxSentences
// sentences. User content passes through trimmed.
type Summarizer struct {
	segmenter    Segmenter
	maxSentences int
}

// New returns a Summarizer. A nil segmenter selects SentenceSegmenter and a
// non-positive maxSentences selects DefaultMaxSentences.
func New(seg Segmenter, maxSentences int) *Summarizer {
	if seg == nil {
		seg = SentenceSegmenter{}
	}
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	return &Summarizer{segmenter: seg, maxSentences: maxSentences}
}

// Text returns the first sentences of text joined by single spaces. Blank
// text yields "".
func (s *Summarizer) Text(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var kept []string
	for _, sent := range s.segmenter.Segment(text) {
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		kept = append(kept, sent)
		if len(kept) == s.maxSentences {
			break
		}
	}
	return strings.Join(kept, " ")
}

// Messages returns a new slice where each assistant message is summarized.
// The input slice is not modified.
func (s *Summarizer) Messages(msgs []types.Message) []types.Message {
	out := make([]types.Message, len(msgs))
	for i, m := range msgs {
		content := strings.TrimSpace(m.Content)
		if m.Role == types.RoleAssistant {
			content = s.Text(m.Content)
		}
		out[i] = types.Message{Role: m.Role, Content: content}
	}
	return out
}

// Result holds the outcome of File.
type Result struct {
	OutputPath string
	Messages   int
	Skipped    int
}

// File parses cfg.InputPath, summarizes its assistant messages, and writes
// the reformatted transcript to cfg.OutputPath. The output can be parsed
// again by transcript.Parse.
func (s *Summarizer) File(cfg types.SummarizeConfig, opts transcript.ParseOptions, w io.Writer) (Result, error) {
	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = transcript.SuffixedPath(cfg.InputPath, "_summary", ".txt")
	}
	res := Result{OutputPath: outPath}

	parsed, err := transcript.Load(cfg.InputPath, opts)
	if err != nil {
		return res, err
	}
	res.Messages = len(parsed.Messages)
	res.Skipped = parsed.Skipped()
	parsed.ReportSkipped(w)
	if res.Messages == 0 {
		fmt.Fprintln(w, "No messages parsed from input")
		return res, nil
	}

	out := transcript.Serialize(s.Messages(parsed.Messages))
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(w, "Summarized transcript has been written to %s\n", outPath)
	return res, nil
}
