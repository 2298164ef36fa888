package render

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/widget"
)

// Output serialises a widget tree (HTML, plain text, etc.).
type Output interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree *widget.Tree, options RenderOptions) ([]byte, error)
}

// RenderOptions describe per-request data outputs can use without mutating
// the tree.
type RenderOptions struct {
	// Page wraps the form in a full document instead of a fragment.
	Page bool
	// Title overrides the document title when Page is set.
	Title string
	// Stylesheets are linked from the document head when Page is set.
	Stylesheets []string
	// Theme carries the resolved theme: partial overrides, tokens as CSS
	// variables and asset URLs. Nil renders unthemed.
	Theme *theme.RendererConfig
}
