// Package tui fills forms from a terminal and prints widget trees as plain
// text.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
)

// Filler walks a form field by field, feeding answers into a controller and
// re-asking fields the controller rejects. The controller stays the source of
// truth for values and validation.
type Filler struct {
	driver      PromptDriver
	theme       Theme
	catalog     messages.Catalog
	maxAttempts int
	confirm     bool
}

// New constructs a filler with defaults (survey driver, three attempts per
// field, no confirmation).
func New(options ...Option) *Filler {
	f := &Filler{
		theme:       DefaultTheme,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// WithCatalog selects the messages used for prompt chrome. Defaults to the
// controller's tree locale in the built-in bundle.
func WithCatalog(catalog messages.Catalog) Option {
	return func(f *Filler) {
		f.catalog = catalog
	}
}

// Fill prompts every field in schema order, then submits. Banner text is
// reported through the driver's Info.
func (f *Filler) Fill(ctx context.Context, ctrl *controller.Controller) (controller.Outcome, error) {
	if ctx == nil {
		return controller.Outcome{}, errors.New("tui: context is required")
	}
	if ctrl == nil {
		return controller.Outcome{}, errors.New("tui: controller is required")
	}
	catalog := f.catalog
	if catalog == nil {
		catalog = messages.Default().Catalog(ctrl.Tree().Locale)
	}

	def := ctrl.Definition()
	if def.Name != "" {
		if err := f.info(ctx, f.theme.InfoPrefix+def.Name); err != nil {
			return controller.Outcome{}, err
		}
	}
	for _, section := range def.Sections {
		if err := f.info(ctx, f.theme.InfoPrefix+"== "+section.Title+" =="); err != nil {
			return controller.Outcome{}, err
		}
		if desc := render.PlainText(section.Description); desc != "" {
			if err := f.info(ctx, f.theme.InfoPrefix+desc); err != nil {
				return controller.Outcome{}, err
			}
		}
		for _, field := range section.Fields {
			if err := f.ask(ctx, ctrl, field, catalog); err != nil {
				return controller.Outcome{}, err
			}
		}
	}

	if f.confirm {
		ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: def.SubmitButtonText + "?", Default: true})
		if err != nil {
			return controller.Outcome{}, err
		}
		if !ok {
			return controller.Outcome{}, ErrDeclined
		}
	}

	out, err := ctrl.Submit(ctx)
	if err != nil {
		return out, err
	}
	for _, issue := range out.Issues {
		_ = f.info(ctx, f.theme.ErrorPrefix+issue.Field+": "+issue.Message)
	}
	switch out.Phase {
	case controller.Success:
		_ = f.info(ctx, f.theme.SuccessPrefix+out.Message)
	case controller.Error:
		_ = f.info(ctx, f.theme.ErrorPrefix+out.Message)
	}
	return out, nil
}

func (f *Filler) ask(ctx context.Context, ctrl *controller.Controller, field model.Field, catalog messages.Catalog) error {
	for attempt := 1; ; attempt++ {
		if err := f.prompt(ctx, ctrl, field, catalog); err != nil {
			return err
		}
		result, err := ctrl.Blur(field.ID)
		if err != nil {
			return err
		}
		if result.Valid {
			return nil
		}
		if err := f.info(ctx, f.theme.ErrorPrefix+field.Label+": "+result.Message); err != nil {
			return err
		}
		if attempt >= f.maxAttempts {
			return fmt.Errorf("%w: field %q", ErrTooManyAttempts, field.ID)
		}
	}
}

func (f *Filler) prompt(ctx context.Context, ctrl *controller.Controller, field model.Field, catalog messages.Catalog) error {
	current := ctrl.Values()[field.ID]
	label := promptLabel(field)

	switch field.Kind {
	case model.KindTextarea:
		answer, err := f.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: first(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		return ctrl.Input(field.ID, answer)
	case model.KindSelect, model.KindRadio:
		options, offset := optionLabels(field, catalog)
		defaultIndex := 0
		if idx := field.OptionIndex(first(current)); idx >= 0 {
			defaultIndex = idx + offset
		}
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return err
		}
		value := ""
		if i := idx - offset; i >= 0 && i < len(field.Options) {
			value = field.Options[i].Value
		}
		return ctrl.Input(field.ID, value)
	case model.KindCheckbox:
		options, _ := optionLabels(field, nil)
		var defaults []int
		for _, v := range current {
			if idx := field.OptionIndex(v); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		picked, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  options,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		values := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(field.Options) {
				values = append(values, field.Options[idx].Value)
			}
		}
		return ctrl.Input(field.ID, values...)
	default:
		answer, err := f.driver.Input(ctx, InputConfig{
			Message: label,
			Default: first(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		return ctrl.Input(field.ID, strings.TrimSpace(answer))
	}
}

func (f *Filler) info(ctx context.Context, msg string) error {
	return f.driver.Info(ctx, msg)
}

// optionLabels lists option labels. A non-nil catalog prepends the "select"
// prompt for optional single-choice fields so the answer can stay empty; the
// returned offset is 1 in that case.
func optionLabels(field model.Field, catalog messages.Catalog) ([]string, int) {
	var out []string
	offset := 0
	if catalog != nil && !field.Required {
		out = append(out, catalog.Get(messages.KeySelect))
		offset = 1
	}
	for _, opt := range field.Options {
		out = append(out, opt.Label)
	}
	return out, offset
}

func promptLabel(field model.Field) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
