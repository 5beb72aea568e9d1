// Package readability implements the readability HTML extraction strategy
// using go-shiori/go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/techdoc"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements techdoc.Extractor at compile time.
var _ techdoc.Extractor = (*Extractor)(nil)

// Extractor scores page blocks the way Mozilla's Readability does and keeps
// the highest scoring article.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*techdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, techdoc.Errorf(techdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, techdoc.Errorf(techdoc.EINVALID, "readability: %v", err)
	}

	return &techdoc.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
