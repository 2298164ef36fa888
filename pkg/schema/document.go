package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Document is a parsed form configuration file: form definitions keyed by
// configuration key plus optional per-locale message overrides.
type Document struct {
	source   Source
	forms    map[string]model.FormDefinition
	messages map[string]messages.Catalog
}

type documentFile struct {
	Forms    map[string]model.FormDefinition `json:"forms" yaml:"forms"`
	Messages map[string]map[string]string    `json:"messages" yaml:"messages"`
}

// ParseDocument decodes JSON first and falls back to YAML.
func ParseDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Document{}, fmt.Errorf("schema: document %s is empty", src.Location())
	}

	var file documentFile
	if err := json.Unmarshal(raw, &file); err != nil {
		file = documentFile{}
		if yamlErr := yaml.Unmarshal(raw, &file); yamlErr != nil {
			return Document{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", src.Location(), yamlErr)
		}
	}
	if len(file.Forms) == 0 {
		return Document{}, fmt.Errorf("schema: document %s defines no forms", src.Location())
	}

	doc := Document{
		source:   src,
		forms:    make(map[string]model.FormDefinition, len(file.Forms)),
		messages: make(map[string]messages.Catalog, len(file.Messages)),
	}
	for key, form := range file.Forms {
		key = strings.TrimSpace(key)
		if key == "" {
			return Document{}, fmt.Errorf("schema: document %s defines an empty form key", src.Location())
		}
		doc.forms[key] = form
	}
	for locale, entries := range file.Messages {
		doc.messages[locale] = messages.Catalog(entries)
	}
	return doc, nil
}

// MustParseDocument panics if the document cannot be parsed. Useful for tests.
func MustParseDocument(src Source, raw []byte) Document {
	doc, err := ParseDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Keys returns the form keys defined in the document, sorted.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d.forms))
	for key := range d.forms {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Form returns the definition stored under key.
func (d Document) Form(key string) (model.FormDefinition, bool) {
	form, ok := d.forms[key]
	return form, ok
}

// Messages returns the per-locale message overrides.
func (d Document) Messages() map[string]messages.Catalog {
	return d.messages
}
