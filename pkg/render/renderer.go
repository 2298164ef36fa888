package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/widget"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithMessages selects the bundle used for catalog-backed labels.
func WithMessages(bundle *messages.Bundle) Option {
	return func(r *Renderer) {
		if bundle != nil {
			r.bundle = bundle
		}
	}
}

// WithHiddenFields emits hidden inputs inside every rendered form.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(r *Renderer) {
		r.hidden = append(r.hidden, fields...)
	}
}

// Renderer builds widget trees from form definitions. It attaches no
// behaviour; the controller drives the tree afterwards.
type Renderer struct {
	bundle *messages.Bundle
	hidden []HiddenField
}

// New returns a Renderer backed by the built-in catalogs unless overridden.
func New(options ...Option) *Renderer {
	r := &Renderer{bundle: messages.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	r.hidden = normalizeHidden(r.hidden)
	return r
}

// Messages returns the bundle the renderer resolves locales against.
func (r *Renderer) Messages() *messages.Bundle {
	return r.bundle
}

// RenderKey resolves key in store and renders it.
func (r *Renderer) RenderKey(store *schema.Store, key, locale string) (*widget.Tree, error) {
	def, err := store.Definition(key)
	if err != nil {
		return nil, err
	}
	return r.Render(def, locale)
}

// Render builds the tree for def. Definitions failing Validate are rejected
// with the *model.ConfigError values it reports.
func (r *Renderer) Render(def *model.FormDefinition, locale string) (*widget.Tree, error) {
	if def == nil {
		return nil, model.NewConfigError("", "", "", model.ErrDefinitionMissing)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("render: form %q: %w", def.ID, err)
	}

	catalog := r.bundle.Catalog(locale)
	form := widget.Element("form", widget.ClassForm+" "+def.ClassName, widget.Props{
		"id":         def.ID,
		"action":     def.Action,
		"method":     strings.ToLower(def.SubmitMethod()),
		"novalidate": true,
		"data-lang":  locale,
	})
	if def.Name != "" {
		form.SetProp("aria-label", def.Name)
	}

	for _, hidden := range r.hidden {
		form.Append(widget.Element("input", "", widget.Props{
			"type":  "hidden",
			"name":  hidden.Name,
			"value": hidden.Value,
		}))
	}
	for _, section := range def.Sections {
		form.Append(r.section(section, catalog))
	}

	form.Append(
		widget.Element("div", widget.ClassActions, nil,
			widget.Element("button", widget.ClassSubmit, widget.Props{"type": "submit"},
				widget.Text(def.SubmitButtonText),
			),
		),
		widget.Element("div", widget.ClassResponse, widget.Props{"aria-live": "polite"},
			widget.Element("div", widget.ClassSuccess, widget.Props{widget.AttrHidden: true}, textOrNil(def.SuccessMessage)),
			widget.Element("div", widget.ClassErrorBanner, widget.Props{widget.AttrHidden: true}, textOrNil(def.ErrorMessage)),
		),
	)

	return widget.NewTree(form, def.ID, locale), nil
}

func (r *Renderer) section(section model.Section, catalog messages.Catalog) *widget.Node {
	node := widget.Element("section", widget.ClassSection, nil,
		widget.Element("h1", widget.ClassSectionTitle, nil, widget.Text(section.Title)),
	)
	if desc := SanitizeInline(section.Description); desc != "" {
		node.Append(widget.Element("p", widget.ClassSectionDesc, nil, widget.Raw(desc)))
	}

	container := widget.Element("div", widget.ClassFields, nil)
	for _, field := range section.Fields {
		container.Append(r.field(field, catalog))
	}
	return node.Append(container)
}

func (r *Renderer) field(field model.Field, catalog messages.Catalog) *widget.Node {
	classes := []string{widget.ClassFieldWrapper}
	if field.Required {
		classes = append(classes, widget.ClassRequired)
	}
	if field.Kind == model.KindTextarea {
		classes = append(classes, widget.ClassFullWidth)
	}
	classes = append(classes, field.ClassName)

	wrapper := widget.Element("div", strings.Join(classes, " "), widget.Props{"data-kind": string(field.Kind)})
	label := widget.Element("label", widget.ClassLabel, widget.Props{"for": field.ID}, widget.Text(field.Label))
	if field.Kind == model.KindCheckbox || field.Kind == model.KindRadio {
		// Groups have no single control to point at.
		label.SetProp("for", nil)
		label.SetProp("id", field.ID+"-label")
	}
	wrapper.Append(label, r.control(field, catalog))
	wrapper.Append(widget.Element("div", widget.ClassErrorSlot, widget.Props{
		"id":                "error-" + field.ID,
		widget.AttrErrorFor: field.ID,
		widget.AttrHidden:   true,
		"role":              "alert",
	}))
	return wrapper
}

func (r *Renderer) control(field model.Field, catalog messages.Catalog) *widget.Node {
	switch field.Kind {
	case model.KindText, model.KindEmail, model.KindTel, model.KindNumber:
		input := widget.Element("input", widget.ClassInput, widget.Props{
			"type":           string(field.Kind),
			"id":             field.ID,
			"name":           field.ID,
			"placeholder":    optional(field.Placeholder),
			"required":       field.Required,
			widget.AttrField: field.ID,
		})
		if field.Kind == model.KindNumber {
			input.SetProp("min", formatBound(field.Min))
			input.SetProp("max", formatBound(field.Max))
		}
		return input
	case model.KindTextarea:
		return widget.Element("textarea", widget.ClassTextarea+" "+widget.ClassAutoResize, widget.Props{
			"id":                  field.ID,
			"name":                field.ID,
			"placeholder":         optional(field.Placeholder),
			"required":            field.Required,
			"rows":                "2",
			widget.AttrField:      field.ID,
			widget.AttrAutoResize: true,
		})
	case model.KindSelect:
		sel := widget.Element("select", widget.ClassSelect, widget.Props{
			"id":             field.ID,
			"name":           field.ID,
			"required":       field.Required,
			widget.AttrField: field.ID,
		})
		sel.Append(widget.Element("option", "", widget.Props{
			"value":    "",
			"disabled": true,
			"selected": true,
		}, widget.Text(catalog.Get(messages.KeySelect))))
		for _, opt := range field.Options {
			sel.Append(widget.Element("option", "", widget.Props{"value": opt.Value}, widget.Text(opt.Label)))
		}
		return sel
	case model.KindCheckbox, model.KindRadio:
		group := widget.Element("div", widget.ClassOptionsGroup, widget.Props{
			"role":            "group",
			"aria-labelledby": field.ID + "-label",
		})
		for _, opt := range field.Options {
			id := model.OptionID(field.ID, opt.Value)
			group.Append(widget.Element("div", widget.ClassOptionWrapper, nil,
				widget.Element("input", "", widget.Props{
					"type":           string(field.Kind),
					"id":             id,
					"name":           field.ID,
					"value":          opt.Value,
					widget.AttrField: field.ID,
				}),
				widget.Element("label", widget.ClassOptionLabel, widget.Props{"for": id}, widget.Text(opt.Label)),
			))
		}
		return group
	default:
		// Validate rejects unknown kinds before rendering starts.
		panic(fmt.Sprintf("render: unhandled field kind %q", field.Kind))
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func textOrNil(s string) *widget.Node {
	if s == "" {
		return nil
	}
	return widget.Text(s)
}

func formatBound(v *float64) any {
	if v == nil {
		return nil
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
