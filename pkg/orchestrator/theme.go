package orchestrator

import (
	"errors"
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/renderers/html"
)

// ErrUnknownTheme is returned when a theme or variant is not registered.
var ErrUnknownTheme = errors.New("orchestrator: unknown theme")

type themeConfig struct {
	selector  theme.ThemeSelector
	name      string
	variant   string
	fallbacks map[string]string
}

// WithThemeSelector resolves a theme for every rendered output. Outputs that
// do not understand themes ignore it.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes.selector = selector
	}
}

// WithTheme sets the theme and variant selected when a request names none.
func WithTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.themes.name = strings.TrimSpace(name)
		o.themes.variant = strings.TrimSpace(variant)
	}
}

// WithThemeFallbacks sets the partials used when the selected theme does not
// override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themes.fallbacks = mergeStrings(fallbacks)
	}
}

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		html.PagePartial: html.PageTemplate,
	}
}

// resolveTheme returns nil when no selector is configured.
func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themes.selector == nil {
		return nil, nil
	}
	// The default variant belongs to the default theme only.
	if name = strings.TrimSpace(name); name == "" {
		name = o.themes.name
		if variant = strings.TrimSpace(variant); variant == "" {
			variant = o.themes.variant
		}
	}

	selection, err := o.themes.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themes.fallbacks), nil
}

// rendererConfig flattens a selection: variant tokens, templates and asset
// files override the manifest's own.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStrings(fallbacks),
	}
	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}
	if cfg.Theme == "" {
		cfg.Theme = manifest.Name
	}

	variant := manifest.Variants[selection.Variant]
	cfg.Partials = mergeStrings(fallbacks, manifest.Templates, variant.Templates)
	cfg.Tokens = mergeStrings(manifest.Tokens, variant.Tokens)
	cfg.CSSVars = cssVars(cfg.Tokens)
	cfg.AssetURL = assetResolver(manifest.Assets, variant.Assets)
	return cfg
}

func cssVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		key = strings.TrimPrefix(strings.TrimSpace(key), "--")
		if key == "" {
			continue
		}
		vars["--"+key] = value
	}
	return vars
}

func assetResolver(base, variant theme.Assets) func(string) string {
	prefix := base.Prefix
	if variant.Prefix != "" {
		prefix = variant.Prefix
	}
	files := mergeStrings(base.Files, variant.Files)

	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		if strings.Contains(prefix, "://") {
			return strings.TrimRight(prefix, "/") + "/" + file
		}
		return path.Join(prefix, file)
	}
}

func mergeStrings(layers ...map[string]string) map[string]string {
	var out map[string]string
	for _, layer := range layers {
		for key, value := range layer {
			if out == nil {
				out = make(map[string]string)
			}
			out[key] = value
		}
	}
	return out
}

// ManifestSelector selects among a fixed set of manifests. An empty name
// picks the default theme; an empty variant picks the default variant when
// the theme defines it.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests with a go-theme registry, which
// rejects invalid or duplicate manifests, and indexes them by name. The
// first manifest is the default theme unless defaultTheme is set.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	registry := theme.NewRegistry()
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("orchestrator: register theme %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
		if s.defaultTheme == "" {
			s.defaultTheme = manifest.Name
		}
	}
	if len(s.manifests) == 0 {
		return nil, errors.New("orchestrator: at least one theme manifest is required")
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, s.defaultTheme)
	}
	return s, nil
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	if variant = strings.TrimSpace(variant); variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: variant %q of %q", ErrUnknownTheme, variant, name)
		}
	} else if _, ok := manifest.Variants[s.defaultVariant]; ok {
		variant = s.defaultVariant
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}
