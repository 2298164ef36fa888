// Package html serialises widget trees to HTML fragments or full pages.
package html

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/render/template"
	"github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formflow/pkg/widget"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

const (
	// PageTemplate is the template name used for full documents.
	PageTemplate = "page"
	// PagePartial is the theme partial key that overrides PageTemplate.
	PagePartial = "html.page"
	// StylesheetAsset is the theme asset key linked ahead of the request
	// stylesheets.
	StylesheetAsset = "html.stylesheet"
)

// Option configures the HTML renderer.
type Option func(*Renderer)

// WithTemplateRenderer replaces the embedded page templates.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithMessages sets the bundle backing the message() template helper.
func WithMessages(bundle *messages.Bundle) Option {
	return func(r *Renderer) {
		if bundle != nil {
			r.bundle = bundle
		}
	}
}

// WithTemplates layers files over the embedded templates. A theme partial
// naming a page template resolves against files first.
func WithTemplates(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.templates = append(r.templates, files)
		}
	}
}

// WithPageData exposes values to the page template next to the built-in
// lang, title, stylesheets, form and theme keys. Ignored with
// WithTemplateRenderer.
func WithPageData(data map[string]any) Option {
	return func(r *Renderer) {
		r.pageData = append(r.pageData, data)
	}
}

// WithFilter registers a pongo2 filter for the page template. Ignored with
// WithTemplateRenderer.
func WithFilter(name string, fn gotemplate.Filter) Option {
	return func(r *Renderer) {
		r.engineOptions = append(r.engineOptions, gotemplate.WithFilter(name, fn))
	}
}

// Renderer implements render.Output for HTML.
type Renderer struct {
	engine        template.TemplateRenderer
	bundle        *messages.Bundle
	templates     overlayFS
	pageData      []map[string]any
	engineOptions []gotemplate.Option
}

// overlayFS opens a name from the first filesystem that has it.
type overlayFS []fs.FS

func (o overlayFS) Open(name string) (fs.File, error) {
	for _, files := range o {
		file, err := files.Open(name)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

var _ render.Output = (*Renderer)(nil)

// New constructs the renderer. Without WithTemplateRenderer it loads the
// embedded page template through pongo2.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{bundle: messages.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine != nil {
		return r, nil
	}

	templatesFS, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("html: sub fs: %w", err)
	}
	engineOptions := []gotemplate.Option{
		gotemplate.WithFS(append(r.templates, templatesFS)),
		gotemplate.WithGlobalData(render.TemplateMessageFuncs(r.bundle, render.TemplateMessageConfig{})),
	}
	for _, data := range r.pageData {
		engineOptions = append(engineOptions, gotemplate.WithGlobalData(data))
	}
	engine, err := gotemplate.New(append(engineOptions, r.engineOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("html: template engine: %w", err)
	}
	r.engine = engine
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form as a fragment, or as a document when options.Page
// is set.
func (r *Renderer) Render(ctx context.Context, tree *widget.Tree, options render.RenderOptions) ([]byte, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New("html: tree is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fragment := Fragment(tree.Root)
	if !options.Page {
		return []byte(fragment), nil
	}

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = tree.Root.Attr("aria-label")
	}
	if title == "" {
		title = tree.FormID
	}
	lang := tree.Locale
	if lang == "" {
		lang = r.bundle.DefaultLocale()
	}

	page := PageTemplate
	stylesheets := options.Stylesheets
	data := map[string]any{
		"lang":  lang,
		"title": title,
		"form":  fragment,
	}
	if cfg := options.Theme; cfg != nil {
		if partial := strings.TrimSpace(cfg.Partials[PagePartial]); partial != "" {
			page = partial
		}
		if cfg.AssetURL != nil {
			if href := cfg.AssetURL(StylesheetAsset); href != "" {
				stylesheets = append([]string{href}, stylesheets...)
			}
		}
		data["theme"] = map[string]any{
			"name":     cfg.Theme,
			"variant":  cfg.Variant,
			"css_vars": CSSVarsRule(cfg.CSSVars),
		}
	}
	data["stylesheets"] = stylesheets

	out, err := r.engine.RenderTemplate(page, data)
	if err != nil {
		return nil, fmt.Errorf("html: render page %q: %w", page, err)
	}
	return []byte(out), nil
}

// CSSVarsRule renders vars as a `:root` rule with keys sorted. Characters
// that could end the declaration or the style element are dropped.
func CSSVarsRule(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		name, value := cssSafe(key), cssSafe(vars[key])
		if !strings.HasPrefix(name, "--") || len(name) == 2 || value == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

func cssSafe(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '{', '}', ';', '\n', '\r':
			return -1
		}
		return r
	}, s))
}

// TemplatesFS exposes the embedded page templates so callers can extend them
// with their own pongo2 loader.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
