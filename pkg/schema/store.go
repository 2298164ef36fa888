package schema

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Store holds validated form definitions keyed by configuration key together
// with the message bundle assembled from the loaded documents.
type Store struct {
	mu     sync.RWMutex
	forms  map[string]*model.FormDefinition
	origin map[string]string
	bundle *messages.Bundle
}

// NewStore returns an empty store backed by the built-in message catalogs.
func NewStore() *Store {
	return &Store{
		forms:  make(map[string]*model.FormDefinition),
		origin: make(map[string]string),
		bundle: messages.Default(),
	}
}

// StoreFrom builds a store from parsed documents.
func StoreFrom(docs ...Document) (*Store, error) {
	store := NewStore()
	for _, doc := range docs {
		if err := store.Add(doc); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Add validates and registers every form of doc. Duplicate keys across
// documents and invalid definitions abort the whole document.
func (s *Store) Add(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]*model.FormDefinition, len(doc.forms))
	for _, key := range doc.Keys() {
		if prev, exists := s.origin[key]; exists {
			return fmt.Errorf("schema: duplicate form %q (file %s, first defined in %s)", key, doc.Location(), prev)
		}
		form := doc.forms[key]
		if err := form.Validate(); err != nil {
			return fmt.Errorf("schema: form %q (file %s): %w", key, doc.Location(), err)
		}
		staged[key] = &form
	}

	for key, form := range staged {
		s.forms[key] = form
		s.origin[key] = doc.Location()
	}
	for locale, catalog := range doc.messages {
		s.bundle.Merge(locale, catalog)
	}
	return nil
}

// Definition returns the definition registered under key. A missing key is a
// configuration error.
func (s *Store) Definition(key string) (*model.FormDefinition, error) {
	if s == nil {
		return nil, model.NewConfigError(key, "", "store is nil", model.ErrDefinitionMissing)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	form, ok := s.forms[key]
	if !ok {
		return nil, model.NewConfigError(key, "", fmt.Sprintf("form configuration %q not found", key), model.ErrDefinitionMissing)
	}
	return form, nil
}

// Keys returns the registered form keys sorted.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.forms))
	for key := range s.forms {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Messages returns the message bundle, including document overrides.
func (s *Store) Messages() *messages.Bundle {
	if s == nil {
		return messages.Default()
	}
	return s.bundle
}

// LoadFS walks fsys and parses every JSON/YAML form document into a store.
// When fsys is nil or holds no documents the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDocumentFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		doc, err := ParseDocument(SourceFromFS(path), data)
		if err != nil {
			return err
		}
		return store.Add(doc)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
