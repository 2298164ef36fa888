// Package formflow renders declarative form definitions into widget trees and
// drives them at runtime: field validation, submission through a transport
// and timed response banners.
//
// Most callers start with an Orchestrator:
//
//	gen := formflow.NewOrchestrator()
//	if err := gen.Load(ctx, schema.SourceFromFile("forms.yaml")); err != nil {
//		return err
//	}
//	page, err := gen.Generate(ctx, formflow.Request{Key: "contact", Locale: "es"})
package formflow

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-formflow/internal/schema/loader"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// RenderOptions describes per-request output instructions.
type RenderOptions = render.RenderOptions

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads source and renders the form stored under key as an HTML
// fragment. It is the simplest entry point for callers that just want markup.
func GenerateHTML(ctx context.Context, source schema.Source, key, locale string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source: source,
		Key:    key,
		Locale: locale,
		Output: "html",
	})
}

// GenerateHTMLFromDocument renders a form using a pre-loaded document,
// bypassing the loader stage.
func GenerateHTMLFromDocument(ctx context.Context, doc schema.Document, key, locale string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: &doc,
		Key:      key,
		Locale:   locale,
		Output:   "html",
	})
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
