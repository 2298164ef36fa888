// Package gotemplate runs page templates through pongo2.
package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

const extension = ".tpl"

// ErrNoTemplateSource is returned by New when no template filesystem is set.
var ErrNoTemplateSource = errors.New("gotemplate: template fs is required")

// Filter transforms a value piped through `{{ value|name:param }}`.
type Filter func(input any, param any) (any, error)

type config struct {
	files   fs.FS
	globals map[string]any
	filters map[string]Filter
}

// Option configures an Engine.
type Option func(*config)

// WithFS sets the filesystem page templates are loaded from.
func WithFS(files fs.FS) Option {
	return func(c *config) {
		c.files = files
	}
}

// WithGlobalData exposes values to every template. Functions are callable
// from templates, e.g. `{{ message(lang, "required") }}`. Later calls win on
// key collisions.
func WithGlobalData(data map[string]any) Option {
	return func(c *config) {
		for key, value := range data {
			key = strings.TrimSpace(key)
			if key == "" || value == nil {
				continue
			}
			if c.globals == nil {
				c.globals = make(map[string]any)
			}
			c.globals[key] = value
		}
	}
}

// WithFilter registers a template filter. pongo2 keeps filters process-wide,
// so registering an existing name replaces it for every engine.
func WithFilter(name string, fn Filter) Option {
	return func(c *config) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		if c.filters == nil {
			c.filters = make(map[string]Filter)
		}
		c.filters[name] = fn
	}
}

// Engine renders named templates from one filesystem and caches the parsed
// result.
type Engine struct {
	set *pongo2.TemplateSet

	mu     sync.RWMutex
	parsed map[string]*pongo2.Template
}

// New builds an engine. WithFS is required.
func New(options ...Option) (*Engine, error) {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.files == nil {
		return nil, ErrNoTemplateSource
	}

	for name, fn := range cfg.filters {
		if err := registerFilter(name, fn); err != nil {
			return nil, err
		}
	}

	set := pongo2.NewSet("formflow", pongo2.NewFSLoader(cfg.files))
	if set.Globals == nil {
		set.Globals = pongo2.Context{}
	}
	for key, value := range cfg.globals {
		set.Globals[key] = value
	}

	return &Engine{set: set, parsed: make(map[string]*pongo2.Template)}, nil
}

// RenderTemplate executes the named template (extension optional) and
// copies the output to every writer in out.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	tmpl, err := e.template(name)
	if err != nil {
		return "", err
	}

	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		ctx[key] = value
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", name, err)
	}
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", fmt.Errorf("gotemplate: write %q: %w", name, err)
		}
	}
	return buf.String(), nil
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	path := strings.TrimSpace(name)
	if path == "" {
		return nil, errors.New("gotemplate: template name is required")
	}
	if !strings.HasSuffix(path, extension) {
		path += extension
	}

	e.mu.RLock()
	tmpl, ok := e.parsed[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", path, err)
	}
	e.mu.Lock()
	e.parsed[path] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

func registerFilter(name string, fn Filter) error {
	wrapped := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	var err error
	if pongo2.FilterExists(name) {
		err = pongo2.ReplaceFilter(name, wrapped)
	} else {
		err = pongo2.RegisterFilter(name, wrapped)
	}
	if err != nil {
		return fmt.Errorf("gotemplate: filter %q: %w", name, err)
	}
	return nil
}
