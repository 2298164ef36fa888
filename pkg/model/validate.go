package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// CompilePattern compiles a validation pattern so that it must match the whole
// value. Anchors already present in the expression are harmless.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// Validate checks the structural invariants of a definition. Every problem is
// reported; the result is nil or a join of *ConfigError values.
func (d *FormDefinition) Validate() error {
	if d == nil {
		return NewConfigError("", "", "", ErrDefinitionMissing)
	}

	var errs []error
	add := func(field, reason string, err error) {
		errs = append(errs, NewConfigError(d.ID, field, reason, err))
	}

	if strings.TrimSpace(d.ID) == "" {
		add("", "form id is required", nil)
	}
	if strings.TrimSpace(d.Action) == "" {
		add("", "form action is required", nil)
	}

	seen := make(map[string]struct{})
	for _, section := range d.Sections {
		for _, field := range section.Fields {
			id := strings.TrimSpace(field.ID)
			if id == "" {
				add("", fmt.Sprintf("section %q has a field without id", section.Title), nil)
				continue
			}
			if _, dup := seen[id]; dup {
				add(id, "duplicate field id", nil)
			}
			seen[id] = struct{}{}

			errs = append(errs, validateField(d.ID, field)...)
		}
	}

	return errors.Join(errs...)
}

func validateField(form string, field Field) []error {
	var errs []error
	add := func(reason string, err error) {
		errs = append(errs, NewConfigError(form, field.ID, reason, err))
	}

	if !field.Kind.Known() {
		add(fmt.Sprintf("unknown field type %q", field.Kind), nil)
	}

	if field.Kind.HasOptions() {
		if len(field.Options) == 0 {
			add("", ErrOptionsMissing)
		}
		values := make(map[string]struct{}, len(field.Options))
		for _, opt := range field.Options {
			if _, dup := values[opt.Value]; dup {
				add(fmt.Sprintf("duplicate option value %q", opt.Value), nil)
			}
			values[opt.Value] = struct{}{}
		}
	}

	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		add(fmt.Sprintf("min %v exceeds max %v", *field.Min, *field.Max), nil)
	}

	rule := field.Validation
	if rule == nil {
		return errs
	}
	if rule.MinLength != nil && *rule.MinLength < 0 {
		add("minLength must not be negative", nil)
	}
	if rule.MaxLength != nil && *rule.MaxLength < 0 {
		add("maxLength must not be negative", nil)
	}
	if rule.MinLength != nil && rule.MaxLength != nil && *rule.MinLength > *rule.MaxLength {
		add(fmt.Sprintf("minLength %d exceeds maxLength %d", *rule.MinLength, *rule.MaxLength), nil)
	}
	if rule.Pattern != "" {
		if _, err := CompilePattern(rule.Pattern); err != nil {
			add("", err)
		}
	}
	return errs
}
