// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/convo/internal/container"
	"github.com/pdiddy/convo/pkg/types"
)

const (
	// DefaultPDFImage reads HTML on stdin and writes PDF on stdout.
	DefaultPDFImage = "weasyprint:latest"
)

// DefaultPDFArgs tell the image to read stdin and write stdout.
var DefaultPDFArgs = []string{"-", "-"}

// PDFRenderer renders the print-style HTML page and pipes it through an
// HTML-to-PDF container image. It depends on a container.Runtime (docker
// or podman) injected at construction time.
type PDFRenderer struct {
	runtime container.Runtime
	image   string
	args    []string
	html    *HTMLRenderer
}

// NewPDFRenderer creates a renderer that runs image through rt. It verifies
// that the image exists locally before returning. Empty image and nil args
// select the defaults.
func NewPDFRenderer(rt container.Runtime, image string, args []string) (*PDFRenderer, error) {
	if image == "" {
		image = DefaultPDFImage
	}
	if args == nil {
		args = DefaultPDFArgs
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("PDF image not available in %s: %w", rt.Name(), err)
	}
	html, err := NewHTMLRenderer(types.StylePrint)
	if err != nil {
		return nil, err
	}
	return &PDFRenderer{runtime: rt, image: image, args: args, html: html}, nil
}

// Ext returns ".pdf".
func (p *PDFRenderer) Ext() string { return ".pdf" }

// Render writes the PDF document for msgs to w.
func (p *PDFRenderer) Render(ctx context.Context, msgs []types.Message, w io.Writer) error {
	var page bytes.Buffer
	if err := p.html.Render(ctx, msgs, &page); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := p.runtime.Run(ctx, p.image, p.args, &page, &out); err != nil {
		return fmt.Errorf("converting HTML to PDF with %s: %w", p.image, err)
	}
	if out.Len() == 0 {
		return fmt.Errorf("%s produced empty output", p.image)
	}

	_, err := out.WriteTo(w)
	return err
}
