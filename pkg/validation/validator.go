package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of validating one field. Message is empty when Valid.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func pass() Result {
	return Result{Valid: true}
}

func fail(message string) Result {
	return Result{Message: message}
}

// Issue is a failing field within a Report.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Report aggregates the results for a whole form, in schema order.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Failed returns the issue recorded for field, if any.
func (r Report) Failed(field string) (Issue, bool) {
	for _, issue := range r.Issues {
		if issue.Field == field {
			return issue, true
		}
	}
	return Issue{}, false
}

// Validator checks values for the fields of one form definition.
type Validator struct {
	def      *model.FormDefinition
	catalog  messages.Catalog
	patterns map[string]*regexp.Regexp
}

// New prepares a validator for def. Every pattern is compiled up front; a
// malformed pattern is returned as a *model.ConfigError.
func New(def *model.FormDefinition, catalog messages.Catalog) (*Validator, error) {
	if def == nil {
		return nil, model.NewConfigError("", "", "", model.ErrDefinitionMissing)
	}
	if catalog == nil {
		catalog = messages.Default().Catalog("")
	}

	v := &Validator{
		def:      def,
		catalog:  catalog,
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, field := range def.Fields() {
		if field.Validation == nil || field.Validation.Pattern == "" {
			continue
		}
		pattern := field.Validation.Pattern
		if _, ok := v.patterns[pattern]; ok {
			continue
		}
		re, err := model.CompilePattern(pattern)
		if err != nil {
			return nil, model.NewConfigError(def.ID, field.ID, "", err)
		}
		v.patterns[pattern] = re
	}
	return v, nil
}

// Definition returns the form the validator was built for.
func (v *Validator) Definition() *model.FormDefinition {
	return v.def
}

// Validate checks the current values of the field identified by fieldID.
// Single-valued fields use the first value; checkbox groups use them all.
func (v *Validator) Validate(fieldID string, values []string) (Result, error) {
	field, ok := v.def.Field(fieldID)
	if !ok {
		return Result{}, fmt.Errorf("validation: unknown field %q in form %q", fieldID, v.def.ID)
	}
	return v.validate(field, values), nil
}

// ValidateAll checks every field of the form against values keyed by field id.
// Every field is checked; failures do not stop the pass.
func (v *Validator) ValidateAll(values map[string][]string) Report {
	report := Report{Valid: true}
	for _, field := range v.def.Fields() {
		result := v.validate(field, values[field.ID])
		if result.Valid {
			continue
		}
		report.Valid = false
		report.Issues = append(report.Issues, Issue{Field: field.ID, Message: result.Message})
	}
	return report
}

func (v *Validator) validate(field model.Field, values []string) Result {
	if field.Kind == model.KindCheckbox {
		return v.validateGroup(field, values)
	}
	value := ""
	if len(values) > 0 {
		value = values[0]
	}
	return v.ValidateField(field, value)
}

func (v *Validator) validateGroup(field model.Field, values []string) Result {
	checked := 0
	for _, value := range values {
		if value == "" {
			continue
		}
		if !field.HasOption(value) {
			return fail(v.catalog.Get(messages.KeyInvalidFormat))
		}
		checked++
	}
	if field.Required && checked == 0 {
		return fail(v.catalog.Get(messages.KeyRequired))
	}
	return pass()
}

// ValidateField evaluates a single value against field's rules.
func (v *Validator) ValidateField(field model.Field, value string) Result {
	if field.Required && strings.TrimSpace(value) == "" {
		return fail(v.catalog.Get(messages.KeyRequired))
	}
	if value == "" {
		return pass()
	}

	if rule := field.Validation; rule != nil {
		if rule.Pattern != "" && !v.matches(rule.Pattern, value) {
			if rule.ErrorMessage != "" {
				return fail(rule.ErrorMessage)
			}
			return fail(v.catalog.Get(messages.KeyInvalidFormat))
		}
		length := utf8.RuneCountInString(value)
		if rule.MinLength != nil && length < *rule.MinLength {
			return fail(v.catalog.Length(messages.KeyMinLength, *rule.MinLength))
		}
		if rule.MaxLength != nil && length > *rule.MaxLength {
			return fail(v.catalog.Length(messages.KeyMaxLength, *rule.MaxLength))
		}
	}

	// Blank values already passed the required check.
	if strings.TrimSpace(value) == "" {
		return pass()
	}
	switch field.Kind {
	case model.KindEmail:
		if !emailPattern.MatchString(value) {
			return fail(v.catalog.Get(messages.KeyInvalidEmail))
		}
	case model.KindNumber:
		return v.checkNumber(field, value)
	case model.KindSelect, model.KindRadio:
		if !field.HasOption(value) {
			return fail(v.catalog.Get(messages.KeyInvalidFormat))
		}
	case model.KindText, model.KindTel, model.KindTextarea, model.KindCheckbox:
	}
	return pass()
}

func (v *Validator) checkNumber(field model.Field, value string) Result {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) {
		return fail(v.catalog.Get(messages.KeyInvalidNumber))
	}
	if field.Min != nil && n < *field.Min {
		return fail(v.catalog.Bounded(messages.KeyMinValue, *field.Min))
	}
	if field.Max != nil && n > *field.Max {
		return fail(v.catalog.Bounded(messages.KeyMaxValue, *field.Max))
	}
	return pass()
}

// matches reports a full match. Patterns of the validator's own definition are
// precompiled; a foreign field with a malformed pattern never matches.
func (v *Validator) matches(pattern, value string) bool {
	re, ok := v.patterns[pattern]
	if !ok {
		var err error
		if re, err = model.CompilePattern(pattern); err != nil {
			return false
		}
	}
	return re.MatchString(value)
}
