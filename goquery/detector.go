package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/techdoc"
)

var _ techdoc.FrameworkDetector = (*Detector)(nil)

// frameworkMarkers lists selectors unique to each generator, in detection
// order. VitePress precedes VuePress since it reuses some VuePress markup.
var frameworkMarkers = []struct {
	framework techdoc.Framework
	selectors []string
}{
	{techdoc.FrameworkDocusaurus, []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container", ".theme-doc-markdown"}},
	{techdoc.FrameworkMkDocs, []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"}},
	{techdoc.FrameworkSphinx, []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"}},
	{techdoc.FrameworkVitePress, []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"}},
	{techdoc.FrameworkVuePress, []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"}},
	{techdoc.FrameworkGitBook, []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"}},
	{techdoc.FrameworkNextra, []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"}},
}

// generatorNames maps substrings of <meta name="generator"> to frameworks.
var generatorNames = []struct {
	name      string
	framework techdoc.Framework
}{
	{"sphinx", techdoc.FrameworkSphinx},
	{"gitbook", techdoc.FrameworkGitBook},
	{"docusaurus", techdoc.FrameworkDocusaurus},
	{"mkdocs", techdoc.FrameworkMkDocs},
	{"vitepress", techdoc.FrameworkVitePress},
	{"vuepress", techdoc.FrameworkVuePress},
	{"nextra", techdoc.FrameworkNextra},
}

// Detector identifies documentation frameworks from HTML content.
// It checks the generator meta tag, then framework-specific classes,
// ids and data attributes.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) techdoc.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return techdoc.FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument is Detect for an already parsed document.
func (d *Detector) DetectDocument(doc *goquery.Document) techdoc.Framework {
	// Meta generator tags are the most reliable signal when present.
	if framework := d.detectFromMetaGenerator(doc); framework != techdoc.FrameworkUnknown {
		return framework
	}

	for _, m := range frameworkMarkers {
		for _, sel := range m.selectors {
			if doc.Find(sel).Length() > 0 {
				return m.framework
			}
		}
	}

	if d.hasGitBookClasses(doc) {
		return techdoc.FrameworkGitBook
	}
	return techdoc.FrameworkUnknown
}

// detectFromMetaGenerator checks the meta generator tag for framework identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) techdoc.Framework {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))
	if generator == "" {
		return techdoc.FrameworkUnknown
	}
	for _, g := range generatorNames {
		if strings.Contains(generator, g.name) {
			return g.framework
		}
	}
	return techdoc.FrameworkUnknown
}

// hasGitBookClasses reports whether the html element carries at least two
// of GitBook's distinctive classes: circular-corners, theme-clean, tint.
func (d *Detector) hasGitBookClasses(doc *goquery.Document) bool {
	htmlClass := doc.Find("html").AttrOr("class", "")
	if htmlClass == "" {
		return false
	}

	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(htmlClass, c) {
			count++
		}
	}
	return count >= 2
}
