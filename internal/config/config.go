package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownOrigin is returned when the configured origin has no entry
// in the origin -> API base table.
var ErrUnknownOrigin = errors.New("unknown chat origin")

type Config struct {
	// Origin is the chat host the exporter talks to. It must have an
	// entry in Origins.
	Origin string `toml:"origin"`

	// Origins maps a chat host origin to its backend API base URL.
	Origins map[string]string `toml:"origins"`

	// AccessToken authorizes backend API calls. TokenFile, when set,
	// points at a file whose trimmed contents are used instead.
	AccessToken string `toml:"access_token"`
	TokenFile   string `toml:"token_file"`

	// SettingsDB is the path of the sqlite settings store.
	SettingsDB string `toml:"settings_db"`

	// OutputDir is where exported files are written.
	OutputDir string `toml:"output_dir"`

	// Lang is the page language stamped into exported documents.
	Lang string `toml:"lang"`

	// Theme is the color theme of exported documents ("light"/"dark").
	Theme string `toml:"theme"`

	// ModelFamilies maps a model slug prefix to the author-type label
	// used in exported documents. Slugs matching no prefix get
	// DefaultModelLabel.
	ModelFamilies     map[string]string `toml:"model_families"`
	DefaultModelLabel string            `toml:"default_model_label"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Origin: "https://chat.openai.com",
		Origins: map[string]string{
			"https://chat.openai.com": "https://chat.openai.com/backend-api",
			"https://chat.zhile.io":   "https://chat-api.zhile.io/api",
		},
		SettingsDB: filepath.Join(home, ".config", "cge", "settings.db"),
		OutputDir:  ".",
		Lang:       "en",
		Theme:      "light",
		ModelFamilies: map[string]string{
			"gpt-4": "GPT-4",
		},
		DefaultModelLabel: "GPT-3",
	}

	cfgPath := filepath.Join(home, ".config", "cge", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.SettingsDB = expandHome(cfg.SettingsDB, home)
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	cfg.TokenFile = expandHome(cfg.TokenFile, home)

	return cfg, nil
}

// APIBase resolves the backend API base URL for origin. An origin
// missing from the table is a configuration error, not a silent miss.
func (c *Config) APIBase(origin string) (string, error) {
	if base, ok := c.Origins[origin]; ok {
		return base, nil
	}
	known := make([]string, 0, len(c.Origins))
	for o := range c.Origins {
		known = append(known, o)
	}
	sort.Strings(known)
	return "", fmt.Errorf("%w %q (known: %s)", ErrUnknownOrigin, origin, strings.Join(known, ", "))
}

// Token returns the access token, preferring TokenFile when set.
func (c *Config) Token() (string, error) {
	if c.TokenFile != "" {
		b, err := os.ReadFile(c.TokenFile)
		if err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return c.AccessToken, nil
}

// ModelLabel classifies a model slug into its family label.
func (c *Config) ModelLabel(slug string) string {
	// longest prefix wins so e.g. "gpt-4o" rules can coexist with "gpt-4"
	best := ""
	label := c.DefaultModelLabel
	for prefix, l := range c.ModelFamilies {
		if strings.HasPrefix(slug, prefix) && len(prefix) > len(best) {
			best = prefix
			label = l
		}
	}
	return label
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
