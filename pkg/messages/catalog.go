// Package messages holds the locale-keyed strings shown by validation and
// submission feedback.
package messages

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Message keys understood by the validator and the controller.
const (
	KeyRequired        = "required"
	KeySelect          = "select"
	KeyInvalidEmail    = "invalidEmail"
	KeyInvalidNumber   = "invalidNumber"
	KeyMinValue        = "minValue"
	KeyMaxValue        = "maxValue"
	KeyMinLength       = "minLength"
	KeyMaxLength       = "maxLength"
	KeyCharacters      = "characters"
	KeyInvalidFormat   = "invalidFormat"
	KeyConnectionError = "connectionError"
	KeyConnectionRetry = "connectionRetry"
	KeyInvalidResponse = "invalidResponse"
)

// RequiredKeys lists the keys every catalog must define.
var RequiredKeys = []string{
	KeyRequired, KeySelect, KeyInvalidEmail, KeyInvalidNumber,
	KeyMinValue, KeyMaxValue, KeyMinLength, KeyMaxLength, KeyCharacters,
}

// DefaultLocale is used when a requested locale is unknown.
const DefaultLocale = "es"

// Catalog maps message keys to display strings for one locale.
type Catalog map[string]string

// Get returns the message for key, or the key itself when missing so gaps
// stay visible instead of rendering blank feedback.
func (c Catalog) Get(key string) string {
	if msg := strings.TrimSpace(c[key]); msg != "" {
		return c[key]
	}
	return key
}

// Bounded joins a message with a bound, e.g. "Minimum value is 3".
func (c Catalog) Bounded(key string, bound any) string {
	return fmt.Sprintf("%s %v", c.Get(key), bound)
}

// Length formats a length message with the characters unit, e.g. "Must be at
// least 2 characters".
func (c Catalog) Length(key string, n int) string {
	return fmt.Sprintf("%s %d %s", c.Get(key), n, c.Get(KeyCharacters))
}

// Missing returns the required keys absent from the catalog, sorted.
func (c Catalog) Missing() []string {
	var out []string
	for _, key := range RequiredKeys {
		if strings.TrimSpace(c[key]) == "" {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func (c Catalog) clone() Catalog {
	out := make(Catalog, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Bundle resolves catalogs by locale with a designated fallback locale.
type Bundle struct {
	mu            sync.RWMutex
	catalogs      map[string]Catalog
	defaultLocale string
}

// BundleOption configures a Bundle.
type BundleOption func(*Bundle)

// WithDefaultLocale overrides the fallback locale.
func WithDefaultLocale(locale string) BundleOption {
	return func(b *Bundle) {
		if locale = normalizeLocale(locale); locale != "" {
			b.defaultLocale = locale
		}
	}
}

// WithCatalog registers or merges a catalog for locale.
func WithCatalog(locale string, catalog Catalog) BundleOption {
	return func(b *Bundle) {
		b.merge(locale, catalog)
	}
}

// NewBundle returns a bundle seeded with the built-in catalogs.
func NewBundle(options ...BundleOption) *Bundle {
	b := &Bundle{
		catalogs:      make(map[string]Catalog),
		defaultLocale: DefaultLocale,
	}
	for locale, catalog := range builtin {
		b.catalogs[locale] = catalog.clone()
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Default returns a bundle with only the built-in catalogs.
func Default() *Bundle {
	return NewBundle()
}

// Merge adds or overrides entries for locale.
func (b *Bundle) Merge(locale string, catalog Catalog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.merge(locale, catalog)
}

func (b *Bundle) merge(locale string, catalog Catalog) {
	locale = normalizeLocale(locale)
	if locale == "" {
		return
	}
	existing, ok := b.catalogs[locale]
	if !ok {
		existing = make(Catalog, len(catalog))
	}
	for key, msg := range catalog {
		if strings.TrimSpace(msg) == "" {
			continue
		}
		existing[key] = msg
	}
	b.catalogs[locale] = existing
}

// DefaultLocale reports the fallback locale.
func (b *Bundle) DefaultLocale() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.defaultLocale
}

// Has reports whether locale resolves to its own catalog.
func (b *Bundle) Has(locale string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.lookup(locale)
	return ok
}

// Locales returns the registered locales sorted.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.catalogs))
	for locale := range b.catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Catalog returns the catalog for locale. Regional tags ("en-US") fall back
// to their base language, unknown locales to the default locale. Keys the
// locale lacks are filled from the default catalog.
func (b *Bundle) Catalog(locale string) Catalog {
	b.mu.RLock()
	defer b.mu.RUnlock()

	fallback := b.catalogs[b.defaultLocale]
	catalog, ok := b.lookup(locale)
	if !ok {
		return fallback.clone()
	}

	out := fallback.clone()
	for key, msg := range catalog {
		out[key] = msg
	}
	return out
}

func (b *Bundle) lookup(locale string) (Catalog, bool) {
	locale = normalizeLocale(locale)
	if catalog, ok := b.catalogs[locale]; ok {
		return catalog, true
	}
	if base, _, found := strings.Cut(locale, "-"); found {
		catalog, ok := b.catalogs[base]
		return catalog, ok
	}
	return nil, false
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	return strings.ReplaceAll(locale, "_", "-")
}
