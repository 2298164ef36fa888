package template

import (
	"io"
)

// TemplateRenderer executes named page templates. The result is returned and
// also copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
