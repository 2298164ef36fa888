package controller

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/schedule"
	"github.com/goliatone/go-formflow/pkg/transport"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/widget"
)

// Controller drives one rendered form. Methods are safe for concurrent use;
// scheduled callbacks take the same lock as user events.
type Controller struct {
	mu sync.Mutex

	def       *model.FormDefinition
	tree      *widget.Tree
	validator *validation.Validator
	transport transport.Transport
	cfg       config
	logger    *slog.Logger

	phase     Phase
	message   string
	values    map[string][]string
	shown     map[string]string
	dismiss   schedule.Task
	bannerSeq uint64
	resize    map[string]schedule.Task
	closed    bool
}

// New wires a controller to a definition, the tree rendered from it and a
// transport. The tree is owned by the controller afterwards; read it back
// through Tree.
func New(def *model.FormDefinition, tree *widget.Tree, tr transport.Transport, options ...Option) (*Controller, error) {
	if def == nil {
		return nil, model.NewConfigError("", "", "", model.ErrDefinitionMissing)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("controller: form %q: %w", def.ID, err)
	}
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("controller: form %q: tree is required", def.ID)
	}
	if tr == nil {
		return nil, fmt.Errorf("controller: form %q: transport is required", def.ID)
	}
	if tree.FormID != def.ID {
		return nil, fmt.Errorf("%w: tree %q, form %q", ErrTreeMismatch, tree.FormID, def.ID)
	}
	for _, field := range def.Fields() {
		if tree.ErrorSlot(field.ID) == nil || len(tree.Controls(field.ID)) == 0 {
			return nil, fmt.Errorf("%w: field %q has no control or error slot", ErrTreeMismatch, field.ID)
		}
	}

	cfg := defaultConfig()
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.catalog == nil {
		cfg.catalog = messages.Default().Catalog(tree.Locale)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	validator, err := validation.New(def, cfg.catalog)
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	c := &Controller{
		def:       def,
		tree:      tree,
		validator: validator,
		transport: tr,
		cfg:       cfg,
		logger:    logger.With("component", "formflow.controller", "form", def.ID),
		values:    make(map[string][]string),
		shown:     make(map[string]string),
		resize:    make(map[string]schedule.Task),
	}
	c.resizeAll()
	return c, nil
}

// Definition returns the form definition.
func (c *Controller) Definition() *model.FormDefinition {
	return c.def
}

// Input replaces the value(s) of a field as if the user typed or picked
// them. A shown error for the field is re-checked; a terminal phase returns
// to Idle.
func (c *Controller) Input(fieldID string, values ...string) error {
	return c.edit(fieldID, values, false)
}

// Paste is Input with the textarea resize deferred to the next scheduler
// tick, as pasted content settles after the event.
func (c *Controller) Paste(fieldID, value string) error {
	return c.edit(fieldID, []string{value}, true)
}

// Check toggles one option of a checkbox group or selects a radio option.
func (c *Controller) Check(fieldID, option string, checked bool) error {
	c.mu.Lock()
	field, err := c.fieldLocked(fieldID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if field.Kind != model.KindCheckbox && field.Kind != model.KindRadio {
		c.mu.Unlock()
		return fmt.Errorf("controller: field %q is not a checkbox or radio group", fieldID)
	}
	if !field.HasOption(option) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q for field %q", ErrUnknownOption, option, fieldID)
	}

	current := c.values[fieldID]
	var next []string
	switch {
	case field.Kind == model.KindRadio && checked:
		next = []string{option}
	case field.Kind == model.KindRadio:
		if len(current) == 1 && current[0] != option {
			next = current
		}
	case checked:
		next = append(append([]string(nil), current...), option)
	default:
		for _, v := range current {
			if v != option {
				next = append(next, v)
			}
		}
	}
	c.mu.Unlock()
	return c.edit(fieldID, next, false)
}

// Blur validates and displays a single field. The phase is unchanged.
func (c *Controller) Blur(fieldID string) (validation.Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return validation.Result{}, ErrClosed
	}
	field, err := c.fieldLocked(fieldID)
	if err != nil {
		c.mu.Unlock()
		return validation.Result{}, err
	}
	result := c.checkLocked(field)
	c.mu.Unlock()

	c.notifyField(fieldID, result)
	return result, nil
}

func (c *Controller) edit(fieldID string, values []string, deferResize bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	field, err := c.fieldLocked(fieldID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	normalized, err := normalize(field, values)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	if len(normalized) == 0 {
		delete(c.values, field.ID)
	} else {
		c.values[field.ID] = normalized
	}
	c.applyValue(field)
	if c.phase.Terminal() {
		c.phase = Idle
		c.message = ""
	}

	if field.Kind == model.KindTextarea {
		if deferResize {
			c.scheduleResize(field.ID)
		} else {
			c.resizeField(field.ID)
		}
	}

	var (
		result     validation.Result
		revalidate bool
	)
	if _, shown := c.shown[field.ID]; shown {
		result = c.checkLocked(field)
		revalidate = true
	}
	c.mu.Unlock()

	if revalidate {
		c.notifyField(fieldID, result)
	}
	return nil
}

// checkLocked validates field against its current value and updates its
// error slot.
func (c *Controller) checkLocked(field model.Field) validation.Result {
	result, _ := c.validator.Validate(field.ID, c.values[field.ID])
	c.setFieldError(field.ID, result.Message)
	return result
}

func (c *Controller) fieldLocked(fieldID string) (model.Field, error) {
	field, ok := c.def.Field(fieldID)
	if !ok {
		return model.Field{}, fmt.Errorf("%w: %q in form %q", ErrUnknownField, fieldID, c.def.ID)
	}
	return field, nil
}

func normalize(field model.Field, values []string) ([]string, error) {
	switch field.Kind {
	case model.KindCheckbox:
		checked := make(map[string]bool, len(values))
		for _, v := range values {
			if v == "" {
				continue
			}
			if !field.HasOption(v) {
				return nil, fmt.Errorf("%w: %q for field %q", ErrUnknownOption, v, field.ID)
			}
			checked[v] = true
		}
		var out []string
		for _, opt := range field.Options {
			if checked[opt.Value] {
				out = append(out, opt.Value)
			}
		}
		return out, nil
	case model.KindSelect, model.KindRadio:
		if len(values) > 1 {
			return nil, fmt.Errorf("controller: field %q takes a single value", field.ID)
		}
		if len(values) == 0 || values[0] == "" {
			return nil, nil
		}
		if !field.HasOption(values[0]) {
			return nil, fmt.Errorf("%w: %q for field %q", ErrUnknownOption, values[0], field.ID)
		}
		return []string{values[0]}, nil
	default:
		if len(values) > 1 {
			return nil, fmt.Errorf("controller: field %q takes a single value", field.ID)
		}
		if len(values) == 0 || values[0] == "" {
			return nil, nil
		}
		return []string{values[0]}, nil
	}
}

// Close cancels every pending task. Further operations return ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.cancelDismiss()
	for id, task := range c.resize {
		task.Cancel()
		delete(c.resize, id)
	}
	return nil
}

func (c *Controller) notifyField(fieldID string, result validation.Result) {
	if c.cfg.observer != nil {
		c.cfg.observer.FieldValidated(c.def.ID, fieldID, result)
	}
}
