package fs_test

import (
	"testing"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	t.Parallel()

	t.Run("splits metadata from body", func(t *testing.T) {
		t.Parallel()

		content := "---\nsource: https://example.com/docs\ntitle: Getting Started\n---\n\n# Body\n"

		fm, body, err := fs.ParseFrontMatter(content)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/docs", fm.Source)
		assert.Equal(t, "Getting Started", fm.Title)
		assert.Equal(t, "# Body\n", body)
	})

	t.Run("skips a leading byte order mark", func(t *testing.T) {
		t.Parallel()

		fm, body, err := fs.ParseFrontMatter("\ufeff---\ntitle: Intro\n---\nBody\n")

		require.NoError(t, err)
		assert.Equal(t, "Intro", fm.Title)
		assert.Equal(t, "Body\n", body)
	})

	t.Run("returns content without front matter unchanged", func(t *testing.T) {
		t.Parallel()

		fm, body, err := fs.ParseFrontMatter("# Title\n\ntext")

		require.NoError(t, err)
		assert.Empty(t, fm.Title)
		assert.Equal(t, "# Title\n\ntext", body)
	})

	t.Run("treats an unterminated block as body", func(t *testing.T) {
		t.Parallel()

		content := "---\ntitle: x\nno closing line"

		_, body, err := fs.ParseFrontMatter(content)

		require.NoError(t, err)
		assert.Equal(t, content, body)
	})

	t.Run("ignores unknown keys", func(t *testing.T) {
		t.Parallel()

		fm, body, err := fs.ParseFrontMatter("---\ntitle: A\ntags: [x, y]\n---\nbody")

		require.NoError(t, err)
		assert.Equal(t, "A", fm.Title)
		assert.Equal(t, "body", body)
	})

	t.Run("rejects invalid YAML", func(t *testing.T) {
		t.Parallel()

		_, _, err := fs.ParseFrontMatter("---\ntitle: [unclosed\n---\nbody")

		require.Error(t, err)
		assert.Equal(t, techdoc.EINVALID, techdoc.ErrorCode(err))
	})
}
