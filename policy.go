package techdoc

import (
	"strings"
	"unicode/utf8"
)

// Thresholds are the minimum measurements extracted text must reach to be
// worth indexing. All four must pass.
type Thresholds struct {
	MinChars         int
	MinLines         int
	MinAvgLineLength float64
	MinWords         int
}

// ContentPolicy decides whether extracted text is substantive enough to
// index. Pages on the relaxed source are judged against lower thresholds
// because their API reference pages are short by nature.
type ContentPolicy struct {
	Standard Thresholds
	Relaxed  Thresholds

	// RelaxedDomain must appear in the path for Relaxed to apply.
	RelaxedDomain string

	// RelaxedSegment must appear as /segment/ in the lower-cased path.
	RelaxedSegment string
}

// DefaultContentPolicy returns the policy used when none is configured.
func DefaultContentPolicy() *ContentPolicy {
	return &ContentPolicy{
		Standard:       Thresholds{MinChars: 200, MinLines: 10, MinAvgLineLength: 25, MinWords: 50},
		Relaxed:        Thresholds{MinChars: 120, MinLines: 6, MinAvgLineLength: 18, MinWords: 35},
		RelaxedDomain:  "docs.aws.amazon.com",
		RelaxedSegment: "cdk",
	}
}

// IsMeaningfulFor reports whether text extracted from path should be indexed.
func (p *ContentPolicy) IsMeaningfulFor(path, text string) bool {
	return p.thresholdsFor(path).Allow(text)
}

// IsRelaxed reports whether path is judged against the relaxed thresholds.
func (p *ContentPolicy) IsRelaxed(path string) bool {
	if p.RelaxedDomain == "" || p.RelaxedSegment == "" {
		return false
	}
	return strings.Contains(path, p.RelaxedDomain) &&
		strings.Contains(strings.ToLower(path), "/"+strings.ToLower(p.RelaxedSegment)+"/")
}

func (p *ContentPolicy) thresholdsFor(path string) Thresholds {
	if p.IsRelaxed(path) {
		return p.Relaxed
	}
	return p.Standard
}

// Allow reports whether text meets every threshold.
func (t Thresholds) Allow(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < t.MinChars {
		return false
	}

	var lines, total int
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines++
		total += utf8.RuneCountInString(line)
	}
	if lines < t.MinLines {
		return false
	}
	if float64(total)/float64(lines) < t.MinAvgLineLength {
		return false
	}
	return len(strings.Fields(text)) >= t.MinWords
}
