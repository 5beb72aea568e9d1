package techdoc

import "strings"

// UnknownCategory is reported for paths that match no configured category.
const UnknownCategory = "unknown"

// NormalizeCategory returns the stored spelling of a category name.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// PathMapper maps local file paths to index metadata.
type PathMapper interface {
	// PathToURL reconstructs the public URL a mirrored file was fetched from.
	PathToURL(path string) string

	// DetectCategory returns the category a file belongs to.
	DetectCategory(path string) string
}

// PathConfig configures a PathResolver.
type PathConfig struct {
	// Base is the local directory under which mirrors are stored as
	// {Base}{category}/{host}/{path}.
	Base string

	// Categories is the closed list of known categories. Earlier entries win
	// when a path contains more than one.
	Categories []string

	// Blocklist holds blocked domains. Entries may be a bare domain or a
	// "*.domain" wildcard.
	Blocklist []string

	// SkipPatterns are matched case-insensitively against file names.
	SkipPatterns []string
}

// PathResolver derives categories, URLs and filtering decisions from local
// mirror paths. It performs no I/O.
type PathResolver struct {
	base         string
	categories   []string
	blocklist    []string
	skipPatterns []string
}

var _ PathMapper = (*PathResolver)(nil)

// NewPathResolver returns a resolver for cfg. A non-empty Base is normalised
// to end in a slash.
func NewPathResolver(cfg PathConfig) *PathResolver {
	base := cfg.Base
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	categories := make([]string, len(cfg.Categories))
	for i, c := range cfg.Categories {
		categories[i] = NormalizeCategory(c)
	}
	skip := make([]string, len(cfg.SkipPatterns))
	for i, p := range cfg.SkipPatterns {
		skip[i] = strings.ToLower(p)
	}
	return &PathResolver{
		base:         base,
		categories:   categories,
		blocklist:    append([]string(nil), cfg.Blocklist...),
		skipPatterns: skip,
	}
}

// Base returns the normalised local base directory.
func (r *PathResolver) Base() string {
	return r.base
}

// Categories returns the configured categories in declaration order.
func (r *PathResolver) Categories() []string {
	return append([]string(nil), r.categories...)
}

// IsKnownCategory reports whether category is one of the configured ones.
func (r *PathResolver) IsKnownCategory(category string) bool {
	category = NormalizeCategory(category)
	for _, c := range r.categories {
		if c == category {
			return true
		}
	}
	return false
}

// DetectCategory returns the first configured category that appears as a
// whole path segment, or UnknownCategory.
func (r *PathResolver) DetectCategory(path string) string {
	segments := strings.FieldsFunc(strings.ToLower(path), func(c rune) bool {
		return c == '/' || c == '\\'
	})
	for _, c := range r.categories {
		for _, s := range segments {
			if s == c {
				return c
			}
		}
	}
	return UnknownCategory
}

// ShouldSkip reports whether a file is an index, search or other
// navigation-only page that should never be indexed.
func (r *PathResolver) ShouldSkip(filename, path string) bool {
	name := strings.ToLower(filename)
	for _, p := range r.skipPatterns {
		if p != "" && strings.Contains(name, p) {
			return true
		}
	}
	lower := strings.ToLower(path)
	for _, marker := range []string{"/genindex-", "/genindex.", "/modindex", "/py-modindex"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsAllowedDomain reports whether the host segment of path is not on the
// blocklist. Paths without an extractable host are allowed.
//
// A blocked entry also matches any host that merely ends with it, so
// "ads.com" blocks "uploads.com" as well as "cdn.ads.com".
func (r *PathResolver) IsAllowedDomain(path string) bool {
	domain := r.domain(path)
	if domain == "" {
		return true
	}
	for _, blocked := range r.blocklist {
		if blocked == "" {
			continue
		}
		if domain == blocked ||
			strings.HasSuffix(domain, "."+blocked) ||
			strings.HasSuffix(domain, blocked) {
			return false
		}
		if strings.HasPrefix(blocked, "*.") && strings.HasSuffix(domain, blocked[1:]) {
			return false
		}
	}
	return true
}

// PartialLabelMatch returns the blocklist entry that blocks path only
// because the host ends with it mid-label, as "ads.com" blocks
// "uploads.com". It returns "" when path is allowed or when a dotted rule
// also blocks it.
func (r *PathResolver) PartialLabelMatch(path string) string {
	domain := r.domain(path)
	if domain == "" {
		return ""
	}
	var partial string
	for _, blocked := range r.blocklist {
		if blocked == "" {
			continue
		}
		if domain == blocked || strings.HasSuffix(domain, "."+blocked) {
			return ""
		}
		if strings.HasPrefix(blocked, "*.") && strings.HasSuffix(domain, blocked[1:]) {
			return ""
		}
		if partial == "" && strings.HasSuffix(domain, blocked) {
			partial = blocked
		}
	}
	return partial
}

// domain returns the segment following the category directory, or "" when
// path does not contain the base or is too short.
func (r *PathResolver) domain(path string) string {
	if r.base == "" {
		return ""
	}
	_, after, ok := strings.Cut(path, r.base)
	if !ok {
		return ""
	}
	parts := strings.Split(after, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// PathToURL reconstructs https://{host}/{rest} for a path stored as
// {Base}{category}/{host}/{rest}, dropping a trailing .html or .md.
// Paths outside Base, or with no host segment, are returned unchanged.
func (r *PathResolver) PathToURL(path string) string {
	if r.base == "" || !strings.HasPrefix(path, r.base) {
		return path
	}
	_, urlPart, ok := strings.Cut(path[len(r.base):], "/")
	if !ok {
		return path
	}
	host, rest, _ := strings.Cut(urlPart, "/")
	switch {
	case strings.HasSuffix(rest, ".html"):
		rest = strings.TrimSuffix(rest, ".html")
	case strings.HasSuffix(rest, ".md"):
		rest = strings.TrimSuffix(rest, ".md")
	}
	return "https://" + host + "/" + rest
}
