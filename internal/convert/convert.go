// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert renders a parsed transcript into a styled document.
// HTML is produced from embedded templates; PDF is produced by piping the
// print-style HTML through an HTML-to-PDF container image.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/convo/internal/transcript"
	"github.com/pdiddy/convo/pkg/types"
)

// Renderer turns messages into one output document. HTMLRenderer and
// PDFRenderer implement this interface.
type Renderer interface {
	// Render writes the document for msgs to w.
	Render(ctx context.Context, msgs []types.Message, w io.Writer) error

	// Ext returns the output file extension including the dot.
	Ext() string
}

// Status is the outcome of converting one transcript.
type Status string

const (
	// StatusWritten means the output file was written.
	StatusWritten Status = "written"
	// StatusEmpty means parsing produced no messages and nothing was written.
	StatusEmpty Status = "empty"
)

// Result holds the outcome of File.
type Result struct {
	Status     Status
	OutputPath string
	Messages   int
	Skipped    int
}

// File reads the transcript at inPath, renders it with r, and writes the
// document to outPath (derived from inPath and r.Ext() when empty). Status
// lines go to w. A missing input returns an error wrapping
// transcript.ErrMissingInput. The output file is only created after
// rendering succeeds.
func File(ctx context.Context, r Renderer, inPath, outPath string, opts transcript.ParseOptions, w io.Writer) (Result, error) {
	if outPath == "" {
		outPath = transcript.OutputPath(inPath, r.Ext())
	}
	res := Result{OutputPath: outPath}

	parsed, err := transcript.Load(inPath, opts)
	if err != nil {
		return res, err
	}
	res.Messages = len(parsed.Messages)
	res.Skipped = parsed.Skipped()

	parsed.ReportSkipped(w)
	if res.Messages == 0 {
		fmt.Fprintln(w, "No valid messages found in the conversation file.")
		res.Status = StatusEmpty
		return res, nil
	}

	var buf bytes.Buffer
	if err := r.Render(ctx, parsed.Messages, &buf); err != nil {
		return res, err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", outPath, err)
	}

	res.Status = StatusWritten
	fmt.Fprintf(w, "%s file has been generated at %s\n", formatName(r), outPath)
	return res, nil
}

func formatName(r Renderer) string {
	return strings.ToUpper(strings.TrimPrefix(r.Ext(), "."))
}
