package fs

import (
	"strings"

	"github.com/fwojciec/techdoc"
	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// FrontMatter holds the metadata block at the top of a Markdown page.
type FrontMatter struct {
	Source   string `yaml:"source,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Category string `yaml:"category,omitempty"`
}

// ParseFrontMatter splits a leading YAML block delimited by --- lines from
// the Markdown body. Content without a front matter block is returned
// unchanged. Returns EINVALID if the block is not valid YAML.
func ParseFrontMatter(content string) (FrontMatter, string, error) {
	var fm FrontMatter

	content = strings.TrimPrefix(content, "\ufeff")
	first, rest, ok := strings.Cut(content, "\n")
	if !ok || strings.TrimRight(first, " \t\r") != frontMatterDelim {
		return fm, content, nil
	}

	var block []string
	for {
		line, tail, more := strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \t\r") == frontMatterDelim {
			if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &fm); err != nil {
				return FrontMatter{}, "", techdoc.Errorf(techdoc.EINVALID, "invalid front matter: %v", err)
			}
			return fm, strings.TrimLeft(tail, "\r\n"), nil
		}
		if !more {
			// An unterminated block is body text.
			return FrontMatter{}, content, nil
		}
		block = append(block, line)
		rest = tail
	}
}
