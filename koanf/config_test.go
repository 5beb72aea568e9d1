package koanf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/koanf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests in this file set environment variables and cannot run in parallel.

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := koanf.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".techdoc", "techdocs.db"), cfg.DB)
	assert.Equal(t, filepath.Join(home, "docs")+"/", cfg.Base)
	assert.Equal(t, techdoc.DefaultCategories, cfg.Categories)
	assert.Equal(t, techdoc.DefaultMaxEmbedTextLength, cfg.MaxEmbedTextLength)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /var/lib/techdoc/index.db
base: /srv/docs/
categories: [go, rust]
html_strategy: trafilatura
embedder:
  provider: openai
  model: all-minilm
  base_url: http://localhost:11434/v1
`), 0o644))

	cfg, err := koanf.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/var/lib/techdoc/index.db", cfg.DB)
	assert.Equal(t, "/srv/docs/", cfg.Base)
	assert.Equal(t, []string{"go", "rust"}, cfg.Categories)
	assert.Equal(t, techdoc.HTMLStrategyTrafilatura, cfg.HTMLStrategy)
	assert.Equal(t, techdoc.EmbedderOpenAI, cfg.Embedder.Provider)
	assert.Equal(t, "all-minilm", cfg.Embedder.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedder.BaseURL)
	assert.Equal(t, 1500, cfg.Embedder.RequestsPerMinute, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TECHDOC_DB", "/tmp/env.db")
	t.Setenv("TECHDOC_EMBEDDER__API_KEY", "secret")
	t.Setenv("TECHDOC_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: /from/file.db\n"), 0o644))

	cfg, err := koanf.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DB)
	assert.Equal(t, "secret", cfg.Embedder.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ProviderAPIKeyVariable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "from-gemini-var")

	cfg, err := koanf.Load("")

	require.NoError(t, err)
	assert.Equal(t, "from-gemini-var", cfg.Embedder.APIKey)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [unclosed\n"), 0o644))

	_, err := koanf.Load(path)

	require.Error(t, err)
	assert.Equal(t, techdoc.EINVALID, techdoc.ErrorCode(err))
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/docs/", home + "/docs/"},
		{"~/.techdoc/techdocs.db", home + "/.techdoc/techdocs.db"},
		{"/abs/path", "/abs/path"},
		{"~other/path", "~other/path"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := koanf.ExpandHome(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
