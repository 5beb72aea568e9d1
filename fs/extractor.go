package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/techdoc"
)

// Ensure TextExtractor implements techdoc.TextExtractor.
var _ techdoc.TextExtractor = (*TextExtractor)(nil)

// TextExtractor turns HTML and Markdown files on disk into cleaned text.
type TextExtractor struct {
	// HTML extracts the content region of an HTML page.
	HTML techdoc.Extractor

	// Fallback is tried when HTML fails or yields no text. Optional.
	Fallback techdoc.Extractor

	// Markdown renders Markdown bodies to HTML.
	Markdown techdoc.MarkdownRenderer

	// Flatten converts content HTML into plain text.
	Flatten func(html string) (string, error)

	// Cleaner removes residual noise from the flattened text. Optional.
	Cleaner *techdoc.Cleaner
}

// Extract reads the file at path and returns its cleaned text. Files that
// are neither HTML nor Markdown yield an empty string and no error.
func (e *TextExtractor) Extract(path string) (string, error) {
	kind := fileKind(path)
	if kind == kindOther {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", techdoc.Errorf(techdoc.EINVALID, "read %s: %v", path, err)
	}
	content := strings.ToValidUTF8(string(data), "")

	var text string
	switch kind {
	case kindHTML:
		text, err = e.extractHTML(content)
	case kindMarkdown:
		text, err = e.extractMarkdown(content)
	}
	if err != nil {
		return "", techdoc.Errorf(techdoc.EINVALID, "extract %s: %s", path, errorText(err))
	}

	if e.Cleaner != nil {
		text = e.Cleaner.Clean(text)
	}
	return strings.TrimSpace(text), nil
}

func (e *TextExtractor) extractHTML(content string) (string, error) {
	text, err := e.flattenWith(e.HTML, content)
	if e.Fallback == nil || (err == nil && strings.TrimSpace(text) != "") {
		return text, err
	}
	fallbackText, fallbackErr := e.flattenWith(e.Fallback, content)
	if fallbackErr != nil {
		if err != nil {
			return "", err
		}
		return text, nil
	}
	return fallbackText, nil
}

func (e *TextExtractor) flattenWith(ex techdoc.Extractor, content string) (string, error) {
	result, err := ex.Extract(content)
	if err != nil {
		return "", err
	}
	return e.Flatten(result.ContentHTML)
}

func (e *TextExtractor) extractMarkdown(content string) (string, error) {
	_, body, err := ParseFrontMatter(content)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	rendered, err := e.Markdown.Render(body)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return e.Flatten(rendered)
}

// errorText returns the message of an application error or the plain
// error text otherwise.
func errorText(err error) string {
	if techdoc.ErrorCode(err) != techdoc.EINTERNAL {
		return techdoc.ErrorMessage(err)
	}
	return err.Error()
}

type kind int

const (
	kindOther kind = iota
	kindHTML
	kindMarkdown
)

func fileKind(path string) kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", "":
		return kindHTML
	case ".md":
		return kindMarkdown
	default:
		return kindOther
	}
}

// IsDocumentFile reports whether path has an extension TextExtractor handles.
func IsDocumentFile(path string) bool {
	return fileKind(path) != kindOther
}
