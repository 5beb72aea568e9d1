package techdoc

import (
	"slices"
	"strings"
)

// HTML extraction strategies.
const (
	HTMLStrategyDOM         = "dom"
	HTMLStrategyReadability = "readability"
	HTMLStrategyTrafilatura = "trafilatura"
)

// Embedding providers.
const (
	EmbedderGemini = "gemini"
	EmbedderOpenAI = "openai"
)

// DefaultMaxEmbedTextLength caps the text sent to the embedding model.
const DefaultMaxEmbedTextLength = 15000

// DefaultCategories are the categories recognised out of the box.
var DefaultCategories = []string{"typescript", "python", "cdk", "vue", "aws_design"}

// DefaultSkipPatterns match file names of index, search and error pages.
var DefaultSkipPatterns = []string{
	"genindex",
	"modindex",
	"py-modindex",
	"search",
	"404",
	"sitemap",
	"index-all",
	"glossary",
}

// DefaultBlocklist holds ad, tracking, analytics and embed domains.
var DefaultBlocklist = []string{
	// Advertising.
	"googlesyndication.com",
	"googleadservices.com",
	"adservice.google.com",
	"ads.google.com",
	"pagead2.googlesyndication.com",
	"doubleclick.net",
	"amazon-adsystem.com",
	"adnxs.com",
	"appnexus.com",
	"criteo.com",
	"rubiconproject.com",
	"openx.com",
	"pubmatic.com",
	"conversantmedia.com",
	"contextweb.com",

	// Tracking and analytics.
	"google-analytics.com",
	"analytics.google.com",
	"googletagmanager.com",
	"mixpanel.com",
	"amplitude.com",
	"hotjar.com",
	"intercom.com",
	"inspectlet.com",
	"mouseflow.com",
	"userreplay.net",
	"fullstory.com",
	"loggly.com",
	"newrelic.com",
	"segment.com",

	// Third-party resource delivery.
	"cdn.optimizely.com",
	"cdn.segment.com",
	"platform.twitter.com",
	"connect.facebook.net",

	// Social embeds and support widgets.
	"instagram.com",
	"liveperson.net",
	"surveymonkey.com",
	"typeform.com",
}

// DefaultNoisePatterns are boilerplate phrases removed anywhere in the text.
var DefaultNoisePatterns = []string{
	`Was this page helpful\?`,
	`Was this helpful\?`,
	`Is this page helpful\?`,
	`Rate this page`,
	`Feedback`,
	`Edit this page`,
	`Edit on GitHub`,
	`Share on Twitter`,
	`Share on Facebook`,
	`Copy link`,
	`Table of contents`,
	`On this page`,
	`In this article`,
	`Skip to .*`,
	`Jump to .*`,
	`Back to top`,
	`Next chapter`,
	`Previous chapter`,
	`Print this page`,
	`Download PDF`,
	`={3,}`,
	`-{3,}`,
	`Contributors?:.*`,
	`Authors?:.*`,
	`Written by.*`,
	`Edited by.*`,
	`Reviewed by.*`,
	`Maintainers?:.*`,
	`Last updated by.*`,
	`Last modified by.*`,
	`Created by.*`,
}

// DefaultLineNoisePatterns are short structural labels removed when they
// make up a whole line.
var DefaultLineNoisePatterns = []string{
	`^Try$`,
	`^Footnotes$`,
	`^Source code:\s*$`,
	`^Was this page helpful\?\s*$`,
	`^Powered by GitBook$`,
	`^On this page$`,
	`^Copy$`,
	`^Ctrl\s+k$`,
	`^README$`,
	`^Getting Started$`,
	`^TypeScript Deep Dive$`,
	`^Future JavaScript Now$`,
	`^TypeScript's Type System$`,
	`^Project$`,
	`^Node\.js QuickStart$`,
	`^Browser QuickStart$`,
	`^Library QuickStart$`,
	`^JS Migration Guide$`,
	`^Errors in TypeScript$`,
	`^TypeScript Compiler Internals$`,
	`^Options$`,
	`^Testing$`,
	`^Tools$`,
	`^TIPs$`,
	`^NPM$`,
}

// Config is the process-wide configuration. Field tags name the keys used
// by configuration files and TECHDOC_* environment variables.
type Config struct {
	// DB is the SQLite database path.
	DB string `koanf:"db"`

	// Base is the local directory holding {category}/{host}/... mirrors.
	Base string `koanf:"base"`

	Categories []string `koanf:"categories"`

	// TargetDirs are the directories indexed by a build. Empty means
	// {Base}{category} for every category.
	TargetDirs []string `koanf:"target_dirs"`

	Blocklist         []string `koanf:"blocklist"`
	SkipPatterns      []string `koanf:"skip_patterns"`
	NoisePatterns     []string `koanf:"noise_patterns"`
	LineNoisePatterns []string `koanf:"line_noise_patterns"`

	MaxEmbedTextLength int    `koanf:"max_embed_text_length"`
	HTMLStrategy       string `koanf:"html_strategy"`
	LogLevel           string `koanf:"log_level"`

	Policy   PolicyConfig   `koanf:"policy"`
	Embedder EmbedderConfig `koanf:"embedder"`
}

// PolicyConfig selects the source that gets relaxed content thresholds.
type PolicyConfig struct {
	RelaxedDomain  string `koanf:"relaxed_domain"`
	RelaxedSegment string `koanf:"relaxed_segment"`
}

// EmbedderConfig configures the embedding provider.
type EmbedderConfig struct {
	Provider string `koanf:"provider"`

	// Model overrides the provider's default embedding model.
	Model  string `koanf:"model"`
	APIKey string `koanf:"api_key"`

	// BaseURL points the OpenAI-compatible provider at another server,
	// such as a local Ollama instance.
	BaseURL string `koanf:"base_url"`

	// RequestsPerMinute throttles embedding calls. Zero disables throttling.
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
// Paths starting with ~ are expanded by the loader.
func DefaultConfig() *Config {
	policy := DefaultContentPolicy()
	return &Config{
		DB:                 "~/.techdoc/techdocs.db",
		Base:               "~/docs/",
		Categories:         slices.Clone(DefaultCategories),
		Blocklist:          slices.Clone(DefaultBlocklist),
		SkipPatterns:       slices.Clone(DefaultSkipPatterns),
		NoisePatterns:      slices.Clone(DefaultNoisePatterns),
		LineNoisePatterns:  slices.Clone(DefaultLineNoisePatterns),
		MaxEmbedTextLength: DefaultMaxEmbedTextLength,
		HTMLStrategy:       HTMLStrategyDOM,
		LogLevel:           "info",
		Policy: PolicyConfig{
			RelaxedDomain:  policy.RelaxedDomain,
			RelaxedSegment: policy.RelaxedSegment,
		},
		Embedder: EmbedderConfig{
			Provider:          EmbedderGemini,
			RequestsPerMinute: 1500,
		},
	}
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	if c.DB == "" {
		return Errorf(EINVALID, "database path required")
	}
	if c.Base == "" {
		return Errorf(EINVALID, "base directory required")
	}
	if len(c.Categories) == 0 {
		return Errorf(EINVALID, "at least one category required")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		cat = NormalizeCategory(cat)
		switch {
		case cat == "":
			return Errorf(EINVALID, "category names must not be empty")
		case cat == UnknownCategory:
			return Errorf(EINVALID, "category %q is reserved", UnknownCategory)
		case strings.ContainsAny(cat, `/\`):
			return Errorf(EINVALID, "category %q must be a single path segment", cat)
		case seen[cat]:
			return Errorf(EINVALID, "duplicate category %q", cat)
		}
		seen[cat] = true
	}
	if c.MaxEmbedTextLength <= 0 {
		return Errorf(EINVALID, "max embed text length must be positive")
	}
	switch c.HTMLStrategy {
	case HTMLStrategyDOM, HTMLStrategyReadability, HTMLStrategyTrafilatura:
	default:
		return Errorf(EINVALID, "unknown html strategy %q", c.HTMLStrategy)
	}
	switch c.Embedder.Provider {
	case EmbedderGemini, EmbedderOpenAI:
	default:
		return Errorf(EINVALID, "unknown embedder provider %q", c.Embedder.Provider)
	}
	if c.Embedder.RequestsPerMinute < 0 {
		return Errorf(EINVALID, "requests per minute must not be negative")
	}
	if _, err := c.Cleaner(); err != nil {
		return err
	}
	return nil
}

// PathResolver returns a resolver built from the configuration.
func (c *Config) PathResolver() *PathResolver {
	return NewPathResolver(PathConfig{
		Base:         c.Base,
		Categories:   c.Categories,
		Blocklist:    c.Blocklist,
		SkipPatterns: c.SkipPatterns,
	})
}

// ContentPolicy returns the default thresholds with the configured relaxed
// source.
func (c *Config) ContentPolicy() *ContentPolicy {
	p := DefaultContentPolicy()
	p.RelaxedDomain = c.Policy.RelaxedDomain
	p.RelaxedSegment = c.Policy.RelaxedSegment
	return p
}

// Cleaner compiles the configured noise patterns.
func (c *Config) Cleaner() (*Cleaner, error) {
	return NewCleaner(c.NoisePatterns, c.LineNoisePatterns)
}

// TargetDirsFor returns the directories to index for category, or every
// target directory when category is empty. Returns EINVALID for a category
// that is not configured or that no target directory belongs to.
func (c *Config) TargetDirsFor(category string) ([]string, error) {
	dirs := c.TargetDirs
	if len(dirs) == 0 {
		base := c.Base
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		for _, cat := range c.Categories {
			dirs = append(dirs, base+cat)
		}
	}
	if category == "" {
		return dirs, nil
	}

	selected := NormalizeCategory(category)
	if !slices.ContainsFunc(c.Categories, func(s string) bool { return NormalizeCategory(s) == selected }) {
		return nil, Errorf(EINVALID, "unknown category %q (choices: %s)", category, strings.Join(c.Categories, ", "))
	}

	var matches []string
	for _, dir := range dirs {
		segments := strings.Split(strings.TrimRight(strings.ToLower(dir), "/"), "/")
		if slices.Contains(segments, selected) {
			matches = append(matches, dir)
		}
	}
	if len(matches) == 0 {
		return nil, Errorf(EINVALID, "category %q not mapped to any target directory", category)
	}
	return matches, nil
}
