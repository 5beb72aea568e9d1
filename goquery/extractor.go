// Package goquery extracts documentation content from HTML using
// PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/techdoc"
)

var _ techdoc.Extractor = (*Extractor)(nil)

// contentSelectors are the main-content regions of each framework, most
// specific first.
var contentSelectors = map[techdoc.Framework][]string{
	techdoc.FrameworkDocusaurus: {".theme-doc-markdown", "article", "main"},
	techdoc.FrameworkMkDocs:     {"article.md-content__inner", ".md-content", "main"},
	techdoc.FrameworkSphinx:     {"[role=main]", ".rst-content", ".body", ".document"},
	techdoc.FrameworkVitePress:  {".vp-doc", "#VPContent main", "#VPContent"},
	techdoc.FrameworkVuePress:   {".theme-default-content", "main"},
	techdoc.FrameworkGitBook:    {"main", "[data-testid='page.contentEditor']"},
	techdoc.FrameworkNextra:     {"article", "main"},
}

// genericSelectors locate the main region of pages from unknown generators.
var genericSelectors = []string{
	"#main-content",
	"#content",
	"#main",
	"[role=main]",
	"main",
	"article",
	".markdown-body",
	".theme-doc-markdown",
	".md-content",
	".rst-content",
	".vp-doc",
	".content",
}

// noiseSelector matches elements that never carry documentation prose.
const noiseSelector = "script, style, noscript, link, meta, nav, header, footer, aside, form, " +
	"button, input, select, textarea, iframe, svg, template, [role=navigation], " +
	"[class*='sidebar'], [id*='sidebar'], [class*='breadcrumb'], [class*='navbar'], " +
	"[class*='feedback'], [class*='social'], [class~='share'], [class*='share-'], [class~='sharing'], " +
	"[class*='edit-page'], [class*='editpage'], [class*='edit-this'], a.headerlink"

// inlineSelector matches elements whose text would otherwise fuse with
// their neighbours when the markup is flattened.
const inlineSelector = "a, code, em, strong, b, i, span, kbd, samp, var, abbr, small, sup, sub"

// Extractor locates the main content of documentation pages. It detects the
// generating framework to pick a content region, falling back to generic
// region selectors and finally the whole body.
type Extractor struct {
	detector *Detector
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{detector: NewDetector()}
}

// Extract processes raw HTML and returns the main content with navigation,
// scripts and styling removed.
func (e *Extractor) Extract(rawHTML string) (*techdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, techdoc.Errorf(techdoc.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, techdoc.Errorf(techdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	region := e.region(doc)
	if title == "" {
		title = strings.TrimSpace(region.Find("h1").First().Text())
	}

	region.Find(noiseSelector).Remove()
	region.Find("[style]").RemoveAttr("style")
	region.Find(inlineSelector).Not("pre *").Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml(" ")
		s.AfterHtml(" ")
	})

	content, err := region.Html()
	if err != nil {
		return nil, techdoc.Errorf(techdoc.EINVALID, "failed to render content: %v", err)
	}

	return &techdoc.ExtractResult{
		Title:       title,
		ContentHTML: content,
	}, nil
}

// region returns the first non-empty content region for the page.
func (e *Extractor) region(doc *goquery.Document) *goquery.Selection {
	framework := e.detector.DetectDocument(doc)
	for _, sel := range contentSelectors[framework] {
		if s := firstWithText(doc, sel); s != nil {
			return s
		}
	}
	for _, sel := range genericSelectors {
		if s := firstWithText(doc, sel); s != nil {
			return s
		}
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body.First()
	}
	return doc.Selection
}

func firstWithText(doc *goquery.Document, selector string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "" {
			found = s
			return false
		}
		return true
	})
	return found
}
