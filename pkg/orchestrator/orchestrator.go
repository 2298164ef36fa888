package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalLoader "github.com/goliatone/go-formflow/internal/schema/loader"
	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/transport"
	"github.com/goliatone/go-formflow/pkg/widget"
)

const defaultOutputName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithStore injects a pre-populated store.
func WithStore(store *schema.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithRenderOptions passes options to every tree renderer the orchestrator
// builds (hidden fields, for instance). The message bundle always comes from
// the store.
func WithRenderOptions(options ...render.Option) Option {
	return func(o *Orchestrator) {
		o.renderOptions = append(o.renderOptions, options...)
	}
}

// WithRegistry injects an output registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultOutput overrides the output used when a request omits an
// explicit Output field.
func WithDefaultOutput(name string) Option {
	return func(o *Orchestrator) {
		o.defaultOutput = name
	}
}

// WithTransport sets the transport handed to mounted controllers.
func WithTransport(tr transport.Transport) Option {
	return func(o *Orchestrator) {
		o.transport = tr
	}
}

// WithControllerOptions appends options applied to every mounted controller.
func WithControllerOptions(options ...controller.Option) Option {
	return func(o *Orchestrator) {
		o.controllerOptions = append(o.controllerOptions, options...)
	}
}

// WithLogger sets the logger passed to mounted controllers.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from form document to rendered
// output and live controllers. It applies defaults (HTML and text outputs,
// HTTP transport, empty store) while remaining open to dependency injection.
type Orchestrator struct {
	loader            schema.Loader
	store             *schema.Store
	renderOptions     []render.Option
	registry          *render.Registry
	defaultOutput     string
	transport         transport.Transport
	controllerOptions []controller.Option
	logger            *slog.Logger
	themes            themeConfig
	initialiseErr     error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultOutput: defaultOutputName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Source identifies where the form document lives. Optional when Document
	// is supplied or the form is already in the store.
	Source schema.Source

	// Document allows callers to bypass the loader when they already have a
	// parsed payload.
	Document *schema.Document

	// Key selects the form configuration to render.
	Key string

	// Locale selects the message catalog.
	Locale string

	// Output names the output to use. If empty, the orchestrator falls back
	// to the configured default output.
	Output string

	// RenderOptions carries per-request output instructions. A non-nil
	// RenderOptions.Theme skips theme selection.
	RenderOptions render.RenderOptions

	// Theme and ThemeVariant override the default theme selection.
	Theme        string
	ThemeVariant string
}

// Store returns the store backing Mount and key-only requests.
func (o *Orchestrator) Store() *schema.Store {
	return o.store
}

// Load fetches src and adds its forms to the store.
func (o *Orchestrator) Load(ctx context.Context, src schema.Source) error {
	if err := o.initialiseErr; err != nil {
		return err
	}
	doc, err := o.loader.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("orchestrator: load document: %w", err)
	}
	return o.store.Add(doc)
}

// Generate renders the requested form through the selected output.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.Key == "" {
		return nil, errors.New("orchestrator: form key is required")
	}

	store, err := o.resolveStore(ctx, req)
	if err != nil {
		return nil, err
	}
	tree, err := o.rendererFor(store).RenderKey(store, req.Key, req.Locale)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render tree: %w", err)
	}

	options := req.RenderOptions
	if options.Theme == nil {
		if options.Theme, err = o.resolveTheme(req.Theme, req.ThemeVariant); err != nil {
			return nil, err
		}
	}
	return o.Output(ctx, tree, req.Output, options)
}

// Output serialises an existing tree, typically one read back from a
// controller, through the named output. The default theme applies when
// options carry none.
func (o *Orchestrator) Output(ctx context.Context, tree *widget.Tree, name string, options render.RenderOptions) ([]byte, error) {
	output, err := o.outputFor(name)
	if err != nil {
		return nil, err
	}
	if options.Theme == nil {
		if options.Theme, err = o.resolveTheme("", ""); err != nil {
			return nil, err
		}
	}
	out, err := output.Render(ctx, tree, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return out, nil
}

// Mount renders the stored form key for locale and attaches a controller to
// the tree. Callers own the controller and must Close it.
func (o *Orchestrator) Mount(key, locale string, options ...controller.Option) (*controller.Controller, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	tree, err := o.rendererFor(o.store).RenderKey(o.store, key, locale)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render tree: %w", err)
	}
	def, err := o.store.Definition(key)
	if err != nil {
		return nil, err
	}

	opts := []controller.Option{
		controller.WithCatalog(o.store.Messages().Catalog(locale)),
		controller.WithLogger(o.logger),
	}
	opts = append(opts, o.controllerOptions...)
	opts = append(opts, options...)
	return controller.New(def, tree, o.transport, opts...)
}

func (o *Orchestrator) resolveStore(ctx context.Context, req Request) (*schema.Store, error) {
	switch {
	case req.Document != nil:
		return schema.StoreFrom(*req.Document)
	case req.Source != nil:
		doc, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load document: %w", err)
		}
		return schema.StoreFrom(doc)
	default:
		return o.store, nil
	}
}

func (o *Orchestrator) rendererFor(store *schema.Store) *render.Renderer {
	options := append([]render.Option(nil), o.renderOptions...)
	options = append(options, render.WithMessages(store.Messages()))
	return render.New(options...)
}

func (o *Orchestrator) outputFor(name string) (render.Output, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: output registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultOutput
	}

	if target != "" {
		output, err := o.registry.Get(target)
		if err == nil {
			return output, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: output %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no outputs registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if o.store == nil {
		o.store = schema.NewStore()
	}
	if o.transport == nil {
		o.transport = transport.NewHTTP()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		output, err := html.New(html.WithMessages(o.store.Messages()))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default output: %w", err)
			return
		}
		o.registry.MustRegister(output)
		o.registry.MustRegister(tui.Text{})
	}
	if o.defaultOutput == "" {
		o.defaultOutput = defaultOutputName
	}
	if o.themes.fallbacks == nil {
		o.themes.fallbacks = defaultThemeFallbacks()
	}
}
