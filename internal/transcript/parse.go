// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript parses and writes the plain-text conversation format:
// blocks separated by "---", each a role line followed by a message body.
// Every convo command reads its input through Parse; the summarizer writes
// its output through Serialize so the result can be parsed again.
package transcript

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/convo/pkg/types"
)

// Separator divides blocks in a transcript.
const Separator = "---"

// ErrMissingInput is returned by ReadFile when the source file does not exist.
var ErrMissingInput = errors.New("input file does not exist")

// DiagnosticKind classifies a skipped block.
type DiagnosticKind string

const (
	// KindMalformed marks a block with no line break between role and body.
	KindMalformed DiagnosticKind = "malformed-block"
	// KindUnknownRole marks a block whose role label is not accepted.
	KindUnknownRole DiagnosticKind = "unknown-role"
)

// Diagnostic describes one block that Parse skipped.
type Diagnostic struct {
	Kind DiagnosticKind
	// Block is the 1-based position among non-empty blocks.
	Block int
	// Label is the role label as written, for unknown-role diagnostics.
	Label string
	// Text is the trimmed block.
	Text string
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case KindUnknownRole:
		return fmt.Sprintf("block %d: unknown role %q", d.Block, d.Label)
	default:
		return fmt.Sprintf("block %d: unexpected block format", d.Block)
	}
}

// ParseOptions configures Parse.
type ParseOptions struct {
	// Match selects role-label strictness. Zero value is exact matching.
	Match types.MatchMode

	// Logger receives one warning per skipped block. Nil disables logging.
	Logger *slog.Logger
}

// Result holds the messages Parse produced and the blocks it skipped.
type Result struct {
	Messages    []types.Message
	Diagnostics []Diagnostic
}

// Skipped returns the number of blocks dropped as malformed or unknown.
func (r Result) Skipped() int {
	return len(r.Diagnostics)
}

// ReportSkipped writes a notice to w when any block was skipped.
func (r Result) ReportSkipped(w io.Writer) {
	if n := r.Skipped(); n > 0 {
		fmt.Fprintf(w, "Skipped %d malformed or unrecognized block(s)\n", n)
	}
}

// Parse splits text into role-tagged messages in source order. Malformed
// blocks and blocks with an unknown role are skipped and recorded as
// diagnostics; Parse itself never fails.
func Parse(text string, opts ParseOptions) Result {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var res Result
	n := 0
	for _, candidate := range strings.Split(text, Separator) {
		block := strings.TrimSpace(candidate)
		if block == "" {
			continue
		}
		n++

		roleLine, body, ok := strings.Cut(block, "\n")
		if !ok {
			res.skip(opts.Logger, Diagnostic{Kind: KindMalformed, Block: n, Text: block})
			continue
		}

		label := strings.TrimSpace(roleLine)
		label = strings.TrimSpace(strings.TrimSuffix(label, ":"))

		role, ok := types.MatchRole(label, opts.Match)
		if !ok {
			res.skip(opts.Logger, Diagnostic{Kind: KindUnknownRole, Block: n, Label: label, Text: block})
			continue
		}

		res.Messages = append(res.Messages, types.Message{
			Role:    role,
			Content: strings.TrimSpace(body),
		})
	}
	return res
}

func (r *Result) skip(logger *slog.Logger, d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	if logger == nil {
		return
	}
	switch d.Kind {
	case KindUnknownRole:
		logger.Warn("skipping block with unknown role", "block", d.Block, "role", d.Label)
	default:
		logger.Warn("skipping block with unexpected format", "block", d.Block, "text", d.Text)
	}
}

// Serialize writes messages in the transcript format: "Role:" on its own
// line, the body, and a separator line between messages. For bodies that
// are non-empty and do not contain the separator, Parse(Serialize(m))
// yields m again.
func Serialize(msgs []types.Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n" + Separator + "\n\n")
		}
		fmt.Fprintf(&b, "%s:\n", m.Role)
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteString("\n")
	}
	return b.String()
}

// ReadFile returns the contents of the transcript at path. A missing file
// yields an error wrapping ErrMissingInput; other read failures are
// returned wrapped as-is.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("the file %s does not exist: %w", path, ErrMissingInput)
		}
		return "", fmt.Errorf("reading transcript %s: %w", path, err)
	}
	return string(data), nil
}

// CheckInput reports the same missing-input error as ReadFile without
// reading the file.
func CheckInput(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("the file %s does not exist: %w", path, ErrMissingInput)
	}
	if err != nil {
		return fmt.Errorf("checking transcript %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the transcript at path.
func Load(path string, opts ParseOptions) (Result, error) {
	text, err := ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Parse(text, opts), nil
}

// OutputPath derives a default output path by replacing the extension of
// input with ext (which includes the leading dot).
func OutputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// SuffixedPath derives an output path next to input with suffix appended to
// the base name, e.g. ("chat.txt", "_user", ".txt") -> "chat_user.txt".
func SuffixedPath(input, suffix, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix + ext
}
