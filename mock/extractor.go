package mock

import "github.com/fwojciec/techdoc"

var _ techdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of techdoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*techdoc.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*techdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ techdoc.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of techdoc.TextExtractor.
type TextExtractor struct {
	ExtractFn func(path string) (string, error)
}

func (e *TextExtractor) Extract(path string) (string, error) {
	return e.ExtractFn(path)
}

var _ techdoc.MarkdownRenderer = (*MarkdownRenderer)(nil)

// MarkdownRenderer is a mock implementation of techdoc.MarkdownRenderer.
type MarkdownRenderer struct {
	RenderFn func(markdown string) (string, error)
}

func (r *MarkdownRenderer) Render(markdown string) (string, error) {
	return r.RenderFn(markdown)
}

var _ techdoc.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of techdoc.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) techdoc.Framework
}

func (d *FrameworkDetector) Detect(html string) techdoc.Framework {
	return d.DetectFn(html)
}
