package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"chatgpt-export/internal/api"
	"chatgpt-export/internal/config"
	"chatgpt-export/internal/export"
	"chatgpt-export/internal/settings"
)

func newClient(cfg *config.Config) (*api.Client, error) {
	base, err := cfg.APIBase(cfg.Origin)
	if err != nil {
		return nil, err
	}
	token, err := cfg.Token()
	if err != nil {
		return nil, err
	}
	return api.NewClient(base, token), nil
}

func newRenderer(cfg *config.Config, store settings.Getter) *export.Renderer {
	lang := cfg.Lang
	if v, ok, _ := store.Get(settings.KeyLanguage); ok && v != "" {
		lang = v
	}
	return &export.Renderer{
		Settings:   store,
		BaseURL:    cfg.Origin,
		Lang:       lang,
		Theme:      cfg.Theme,
		ModelLabel: cfg.ModelLabel,
	}
}

// resolveFormat picks the filename pattern: flag, then the stored
// preference, then the title alone.
func resolveFormat(store settings.Getter, flag string) string {
	if flag != "" {
		return flag
	}
	if v, ok, _ := store.Get(settings.KeyFilenameFormat); ok && v != "" {
		return v
	}
	return "{title}"
}

// resolveMetaList combines the stored metadata fields (when the
// feature flag is on) with any --meta name=template flags.
func resolveMetaList(store settings.Getter, flags []string) ([]export.ExportMeta, error) {
	var metaList []export.ExportMeta

	enabled, err := store.GetBool(settings.KeyMetaEnabled)
	if err != nil {
		return nil, fmt.Errorf("read meta setting: %w", err)
	}
	if enabled {
		if raw, ok, _ := store.Get(settings.KeyMetaList); ok && raw != "" {
			if err := json.Unmarshal([]byte(raw), &metaList); err != nil {
				return nil, fmt.Errorf("parse %s: %w", settings.KeyMetaList, err)
			}
		}
	}

	for _, f := range flags {
		name, value, found := strings.Cut(f, "=")
		if !found {
			return nil, fmt.Errorf("invalid --meta %q, want name=template", f)
		}
		metaList = append(metaList, export.ExportMeta{Name: name, Value: value})
	}
	return metaList, nil
}
