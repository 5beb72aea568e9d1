// Package goldmark renders Markdown documentation to HTML using
// yuin/goldmark.
package goldmark

import (
	"bytes"

	"github.com/fwojciec/techdoc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var _ techdoc.MarkdownRenderer = (*Renderer)(nil)

// Renderer converts GitHub Flavored Markdown to HTML. Raw HTML embedded in
// the Markdown is passed through so that it is flattened with the rest of
// the page.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render transforms Markdown source into HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", techdoc.Errorf(techdoc.EINVALID, "failed to render markdown: %v", err)
	}
	return buf.String(), nil
}
