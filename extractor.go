package techdoc

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The content HTML has boilerplate removed but preserves structure.
	Extract(html string) (*ExtractResult, error)
}

// MarkdownRenderer renders Markdown to HTML.
type MarkdownRenderer interface {
	// Render transforms Markdown source into HTML.
	// Front matter must already be stripped.
	Render(markdown string) (string, error)
}

// TextExtractor turns a documentation file into cleaned plain text.
type TextExtractor interface {
	// Extract reads the file at path and returns its cleaned text.
	// On any read or parse failure it returns an empty string together
	// with the error, so callers can treat the file as content-free.
	Extract(path string) (string, error)
}
