package template_test

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/pkg/render/template"
	"github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

var _ template.TemplateRenderer = (*gotemplate.Engine)(nil)

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want || written != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q (writer %q)", want, result, written)
	}

	again, err := engine.RenderTemplate("hello.tpl", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render with extension: %v", err)
	}
	if again != want {
		t.Fatalf("cached render mismatch: %q", again)
	}
}

func TestGoTemplateEngine_GlobalData(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
		"  ":       "ignored",
	}))

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_GlobalFunctions(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"greet": func(name string) string { return "Hola, " + name },
	}))

	result, err := engine.RenderTemplate("use-func", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hola, Ada" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_Filter(t *testing.T) {
	engine := newEngine(t, gotemplate.WithFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}))

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, result)
	}

	// Registering the same name again replaces the filter.
	engine = newEngine(t, gotemplate.WithFilter("shout", func(input any, _ any) (any, error) {
		return strings.ToLower(fmt.Sprint(input)), nil
	}))
	result, err = engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render after replace: %v", err)
	}
	if result != "ada" {
		t.Fatalf("expected replaced filter output, got %q", result)
	}
}

func TestGoTemplateEngine_FilterErrorFailsRender(t *testing.T) {
	boom := errors.New("boom")
	engine := newEngine(t, gotemplate.WithFilter("shout", func(any, any) (any, error) {
		return nil, boom
	}))

	if _, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}); err == nil {
		t.Fatalf("expected filter error to fail the render")
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, err := engine.RenderTemplate(" ", nil); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); !errors.Is(err, gotemplate.ErrNoTemplateSource) {
		t.Fatalf("expected ErrNoTemplateSource, got %v", err)
	}
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
