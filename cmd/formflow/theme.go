package main

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/orchestrator"
)

type themeAssets struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type themeVariant struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    themeAssets       `yaml:"assets"`
}

// themeFile is the YAML layout of a --theme-file manifest.
type themeFile struct {
	Name      string                  `yaml:"name"`
	Version   string                  `yaml:"version"`
	Tokens    map[string]string       `yaml:"tokens"`
	Templates map[string]string       `yaml:"templates"`
	Assets    themeAssets             `yaml:"assets"`
	Variants  map[string]themeVariant `yaml:"variants"`
}

func (f themeFile) manifest() *theme.Manifest {
	m := &theme.Manifest{
		Name:      f.Name,
		Version:   f.Version,
		Tokens:    f.Tokens,
		Templates: f.Templates,
		Assets:    theme.Assets{Prefix: f.Assets.Prefix, Files: f.Assets.Files},
	}
	if len(f.Variants) > 0 {
		m.Variants = make(map[string]theme.Variant, len(f.Variants))
		for name, v := range f.Variants {
			m.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return m
}

// themeOptions loads every --theme-file manifest. No files means no theme.
func themeOptions(flags *globalFlags) ([]orchestrator.Option, error) {
	if len(flags.themeFiles) == 0 {
		return nil, nil
	}
	manifests := make([]*theme.Manifest, 0, len(flags.themeFiles))
	for _, path := range flags.themeFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read theme %s: %w", path, err)
		}
		var file themeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", path, err)
		}
		if file.Name == "" {
			return nil, fmt.Errorf("theme %s: name is required", path)
		}
		manifests = append(manifests, file.manifest())
	}

	selector, err := orchestrator.NewManifestSelector(flags.theme, flags.themeVariant, manifests...)
	if err != nil {
		return nil, err
	}
	return []orchestrator.Option{
		orchestrator.WithThemeSelector(selector),
		orchestrator.WithTheme(flags.theme, flags.themeVariant),
	}, nil
}
