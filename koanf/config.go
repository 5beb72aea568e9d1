// Package koanf loads techdoc.Config from a YAML file and TECHDOC_*
// environment variables.
package koanf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/techdoc"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: TECHDOC_EMBEDDER__API_KEY sets embedder.api_key.
const EnvPrefix = "TECHDOC_"

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "~/.techdoc/config.yaml"

// Load starts from techdoc.DefaultConfig, overlays the YAML file at path if
// it exists, then environment variables, and expands ~ in paths.
// The provider's conventional API key variable fills an empty API key.
func Load(path string) (*techdoc.Config, error) {
	k := koanf.New(".")
	cfg := techdoc.DefaultConfig()

	if path != "" {
		path, err := ExpandHome(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, techdoc.Errorf(techdoc.EINVALID, "reading config %s: %v", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, techdoc.Errorf(techdoc.EINVALID, "unmarshalling config: %v", err)
	}

	if cfg.Embedder.APIKey == "" {
		cfg.Embedder.APIKey = os.Getenv(APIKeyEnvVar(cfg.Embedder.Provider))
	}

	if err := expandPaths(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps TECHDOC_EMBEDDER__API_KEY to embedder.api_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// APIKeyEnvVar returns the conventional API key variable for a provider.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case techdoc.EmbedderGemini:
		return "GEMINI_API_KEY"
	case techdoc.EmbedderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

func expandPaths(cfg *techdoc.Config) error {
	var err error
	if cfg.DB, err = ExpandHome(cfg.DB); err != nil {
		return err
	}
	if cfg.Base, err = ExpandHome(cfg.Base); err != nil {
		return err
	}
	for i, dir := range cfg.TargetDirs {
		if cfg.TargetDirs[i], err = ExpandHome(dir); err != nil {
			return err
		}
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
// A trailing slash is preserved.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	expanded := filepath.Join(home, strings.TrimPrefix(path, "~"))
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(expanded, "/") {
		expanded += "/"
	}
	return expanded, nil
}
