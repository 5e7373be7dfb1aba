// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter reduces a transcript to the messages of one role.
package filter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/convo/internal/transcript"
	"github.com/pdiddy/convo/pkg/types"
)

// BodySeparator is written between consecutive bodies: exactly one blank line.
const BodySeparator = "\n\n"

// Select returns the content of every message whose role is target, in
// transcript order.
func Select(msgs []types.Message, target types.Role) []string {
	var bodies []string
	for _, m := range msgs {
		if m.Role == target {
			bodies = append(bodies, m.Content)
		}
	}
	return bodies
}

// Write writes bodies to w separated by BodySeparator.
func Write(w io.Writer, bodies []string) error {
	_, err := io.WriteString(w, strings.Join(bodies, BodySeparator))
	return err
}

// Result holds the outcome of File.
type Result struct {
	OutputPath string
	Matched    int
	Messages   int
	Skipped    int
}

// File parses the transcript at cfg.InputPath and writes the bodies of
// cfg.TargetRole messages to cfg.OutputPath. Nothing is written when the
// transcript has no messages or none of them match; a notice goes to w.
func File(cfg types.FilterConfig, opts transcript.ParseOptions, w io.Writer) (Result, error) {
	if !cfg.TargetRole.Valid() {
		return Result{}, fmt.Errorf("invalid target role %q", cfg.TargetRole)
	}
	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = transcript.SuffixedPath(cfg.InputPath, "_"+cfg.TargetRole.Class(), ".txt")
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
		fmt.Fprintln(w, "No valid messages found in the conversation file.")
		return res, nil
	}

	bodies := Select(parsed.Messages, cfg.TargetRole)
	res.Matched = len(bodies)
	if res.Matched == 0 {
		fmt.Fprintf(w, "No messages found for role: %s\n", cfg.TargetRole)
		return res, nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return res, fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := Write(f, bodies); err != nil {
		return res, fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(w, "Filtered messages have been written to %s\n", outPath)
	return res, f.Close()
}
