package techdoc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// fontNames lists font families that appear in flattened style residue.
// Longer names precede their prefixes.
const fontNames = `-apple-system|BlinkMacSystemFont|Segoe UI Emoji|Segoe UI Symbol|Segoe UI|` +
	`Helvetica Neue|Helvetica|Arial|sans-serif|Roboto|Oxygen-Sans|Cantarell|Open Sans|` +
	`Noto Sans|Liberation Sans|Courier New|SFMono-Regular|Menlo|Monaco|Consolas|` +
	`Lucida Console|Apple Color Emoji`

// cssProperties lists the style properties recognised in flattened residue.
const cssProperties = `font(?:-(?:family|size|weight|style|variant))?|line-height|letter-spacing|` +
	`color|background(?:-(?:color|image|position|repeat|size))?|` +
	`margin(?:-(?:top|right|bottom|left))?|padding(?:-(?:top|right|bottom|left))?|` +
	`border(?:-(?:top|right|bottom|left|radius|color|style|width|collapse))?|` +
	`(?:min-|max-)?(?:width|height)|display|position|top|right|bottom|left|` +
	`text-(?:align|decoration|transform|indent)|vertical-align|white-space|` +
	`overflow(?:-[xy])?|opacity|z-index|float|clear|cursor|box-(?:sizing|shadow)|` +
	`flex(?:-(?:direction|wrap|grow|shrink|basis))?|justify-content|align-items|gap|` +
	`transition|transform|visibility|list-style(?:-type)?`

// cssValueStart matches the first token of a value that only occurs in
// style sheets: a magnitude, a colour or a CSS keyword.
const cssValueStart = `-?\d+(?:\.\d+)?(?:(?:px|rem|em|pt|vh|vw)\b|%)?|#[0-9A-Fa-f]{3,8}\b|(?:rgba?|hsla?)\(|` +
	`(?:none|auto|inherit|initial|unset|bold|normal|italic|block|inline(?:-block|-flex)?|flex|grid|` +
	`absolute|relative|fixed|sticky|static|hidden|visible|scroll|solid|dashed|dotted|center|pointer|` +
	`transparent|underline|nowrap|uppercase|lowercase|space-between|border-box)\b`

const cssDeclaration = `\b(?:` + cssProperties + `)[ \t]*:[ \t]*[^;\n{}]{1,120};`

var (
	// Two or more declarations on one line are style residue whatever
	// their values.
	cssDeclarationRunRe = regexp.MustCompile(`(?i)` + cssDeclaration + `(?:[ \t]*` + cssDeclaration + `)+`)

	// A lone declaration is residue only when its value looks like CSS.
	cssStyledDeclarationRe = regexp.MustCompile(`(?i)\b(?:` + cssProperties + `)[ \t]*:[ \t]*(?:` +
		cssValueStart + `)[^;\n{}]{0,100};`)

	fontFamilyRe = regexp.MustCompile(`["']?(?:` + fontNames + `)["']?` +
		`(?:[ \t]*,[ \t]*["']?(?:` + fontNames + `|serif|monospace|system-ui|cursive|fantasy)["']?)+`)

	hexColorRe = regexp.MustCompile(`#[0-9A-Fa-f]{3}(?:[0-9A-Fa-f]{3}(?:[0-9A-Fa-f]{2})?)?\b`)

	colorFuncRe = regexp.MustCompile(`(?i)\b(?:rgba?|hsla?)\([^)\n]*\)`)

	lengthRe = regexp.MustCompile(`-?\b\d+(?:\.\d+)?(?:px|rem|em|pt|vh|vw)\b`)

	percentRunRe = regexp.MustCompile(`-?\b\d+(?:\.\d+)?%(?:[ \t]+-?\d+(?:\.\d+)?%)+`)

	cssPunctLineRe = regexp.MustCompile(`(?m)^[ \t]*[;:,][;:, \t]*$`)

	attributionRe = regexp.MustCompile(`^(?:` +
		`(?:Contributors?|Authors?|Maintainers?)(?:\s*:.*)?|` +
		`(?:Written|Edited|Reviewed|Created|Last updated|Last modified) by\b.*` +
		`)$`)

	splitWordRe = regexp.MustCompile(`([a-z])\n([a-z]{1,3})\b`)

	spaceRunRe = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]+`)

	sentenceRe = regexp.MustCompile(`([.!?]) +([A-Z])`)

	blankRunRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

	trailingSpaceRe = regexp.MustCompile(`(?m)[ \t\x{00A0}]+$`)
)

// Cleaner removes scraping noise from extracted page text.
//
// The pipeline is a fixed sequence of pure stages. Phrase and line noise are
// operator-configured; every other stage is built in.
type Cleaner struct {
	phrases []*regexp.Regexp
	lines   []*regexp.Regexp
}

// NewCleaner compiles the phrase patterns removed anywhere in the text and
// the line patterns that remove a whole trimmed line.
// Returns EINVALID if any pattern does not compile.
func NewCleaner(phrases, lines []string) (*Cleaner, error) {
	c := &Cleaner{}
	for _, p := range phrases {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid noise pattern %q: %v", p, err)
		}
		c.phrases = append(c.phrases, re)
	}
	for _, p := range lines {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid line noise pattern %q: %v", p, err)
		}
		c.lines = append(c.lines, re)
	}
	return c, nil
}

// Stages returns the pipeline in application order.
func (c *Cleaner) Stages() []func(string) string {
	return []func(string) string{
		RemoveCSSResidue,
		c.RemoveNoisePhrases,
		c.RemoveNoiseLines,
		RemoveAttributionBlocks,
		CollapseDuplicateLines,
		JoinSplitWords,
		CollapseSpaces,
		BreakSentences,
		CollapseBlankLines,
		TrimLines,
	}
}

// Clean runs the pipeline until the text stops changing. No stage lengthens
// the text, and the only same-length rewrites turn spaces into newlines or
// other blanks into spaces, so the loop terminates.
func (c *Cleaner) Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	stages := c.Stages()
	for {
		out := text
		for _, stage := range stages {
			out = stage(out)
		}
		if out == text {
			return text
		}
		text = out
	}
}

// RemoveCSSResidue drops inline-style fragments left behind when markup is
// flattened. Declarations are removed when they come in a run on one line or
// carry a CSS-looking value, font names only inside a comma-separated list,
// and percentages only in runs of two or more, so that code and prose
// survive.
func RemoveCSSResidue(text string) string {
	text = cssDeclarationRunRe.ReplaceAllString(text, "")
	text = cssStyledDeclarationRe.ReplaceAllString(text, "")
	text = colorFuncRe.ReplaceAllString(text, "")
	text = hexColorRe.ReplaceAllStringFunc(text, func(m string) string {
		if strings.ContainsAny(m[1:], "abcdefABCDEF") {
			return ""
		}
		return m
	})
	text = fontFamilyRe.ReplaceAllString(text, "")
	text = lengthRe.ReplaceAllString(text, "")
	text = percentRunRe.ReplaceAllString(text, "")
	return cssPunctLineRe.ReplaceAllString(text, "")
}

// RemoveNoisePhrases deletes every match of the configured phrase patterns.
func (c *Cleaner) RemoveNoisePhrases(text string) string {
	for _, re := range c.phrases {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// RemoveNoiseLines drops lines whose trimmed content fully matches a
// configured line pattern.
func (c *Cleaner) RemoveNoiseLines(text string) string {
	if len(c.lines) == 0 {
		return text
	}
	in := strings.Split(text, "\n")
	out := in[:0]
	for _, line := range in {
		if !c.isNoiseLine(strings.TrimSpace(line)) {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func (c *Cleaner) isNoiseLine(line string) bool {
	for _, re := range c.lines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// RemoveAttributionBlocks drops contributor and author credits. The heading
// line and every following line are removed until a blank line or a line
// starting with a capital letter.
func RemoveAttributionBlocks(text string) string {
	in := strings.Split(text, "\n")
	out := make([]string, 0, len(in))
	for i := 0; i < len(in); i++ {
		if !attributionRe.MatchString(strings.TrimSpace(in[i])) {
			out = append(out, in[i])
			continue
		}
		for i+1 < len(in) && !endsAttribution(in[i+1]) {
			i++
		}
	}
	return strings.Join(out, "\n")
}

func endsAttribution(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return unicode.IsUpper(r)
}

// CollapseDuplicateLines keeps one copy of consecutive non-blank lines that
// are equal after trimming.
func CollapseDuplicateLines(text string) string {
	in := strings.Split(text, "\n")
	out := make([]string, 0, len(in))
	prev := ""
	for _, line := range in {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && trimmed == prev {
			continue
		}
		out = append(out, line)
		prev = trimmed
	}
	return strings.Join(out, "\n")
}

// JoinSplitWords rejoins a lowercase word broken across a line break when
// the continuation is one to three lowercase letters.
func JoinSplitWords(text string) string {
	for {
		out := splitWordRe.ReplaceAllString(text, "$1$2")
		if out == text {
			return out
		}
		text = out
	}
}

// CollapseSpaces replaces runs of horizontal whitespace with one space.
func CollapseSpaces(text string) string {
	return spaceRunRe.ReplaceAllString(text, " ")
}

// BreakSentences starts a new line after sentence-ending punctuation that is
// followed by a capitalised word.
func BreakSentences(text string) string {
	return sentenceRe.ReplaceAllString(text, "$1\n$2")
}

// CollapseBlankLines reduces runs of blank lines to a single blank line.
func CollapseBlankLines(text string) string {
	return blankRunRe.ReplaceAllString(text, "\n\n")
}

// TrimLines strips trailing whitespace from every line and then from the
// text as a whole.
func TrimLines(text string) string {
	return strings.TrimSpace(trailingSpaceRe.ReplaceAllString(text, ""))
}
