package model

import "net/http"

// FieldKind enumerates the supported controls. The set is closed; renderers
// and validators switch on it and treat unknown kinds as configuration errors.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindNumber   FieldKind = "number"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindRadio    FieldKind = "radio"
)

// Kinds lists every supported kind in declaration order.
func Kinds() []FieldKind {
	return []FieldKind{
		KindText, KindEmail, KindTel, KindNumber,
		KindTextarea, KindSelect, KindCheckbox, KindRadio,
	}
}

// Known reports whether k is one of the supported kinds.
func (k FieldKind) Known() bool {
	switch k {
	case KindText, KindEmail, KindTel, KindNumber, KindTextarea, KindSelect, KindCheckbox, KindRadio:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the kind renders from an option list.
func (k FieldKind) HasOptions() bool {
	switch k {
	case KindSelect, KindCheckbox, KindRadio:
		return true
	default:
		return false
	}
}

// MultiValued reports whether a field of this kind may hold several values.
func (k FieldKind) MultiValued() bool {
	return k == KindCheckbox
}

// Option is a selectable value for select/checkbox/radio fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ValidationRule holds the declarative constraints attached to a field.
// ErrorMessage replaces the generic message when Pattern does not match.
type ValidationRule struct {
	MinLength    *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength    *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern      string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// Field is one data-collecting control.
type Field struct {
	ID          string          `json:"id" yaml:"id"`
	Kind        FieldKind       `json:"type" yaml:"type"`
	Label       string          `json:"label" yaml:"label"`
	Placeholder string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool            `json:"required,omitempty" yaml:"required,omitempty"`
	ClassName   string          `json:"className,omitempty" yaml:"className,omitempty"`
	Validation  *ValidationRule `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options     []Option        `json:"options,omitempty" yaml:"options,omitempty"`
	// Min and Max bound number fields inclusively.
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// HasOption reports whether value is one of the field's declared options.
func (f Field) HasOption(value string) bool {
	return f.OptionIndex(value) >= 0
}

// OptionIndex returns the schema position of value, or -1.
func (f Field) OptionIndex(value string) int {
	for i, opt := range f.Options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

// OptionID is the control identity of a checkbox/radio option. Prefixing with
// the field id keeps label associations unique across groups.
func OptionID(fieldID, value string) string {
	return fieldID + "-" + value
}

// Section groups fields under a title.
type Section struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// FormDefinition describes one complete form.
type FormDefinition struct {
	ID               string    `json:"id" yaml:"id"`
	Name             string    `json:"name,omitempty" yaml:"name,omitempty"`
	Action           string    `json:"action" yaml:"action"`
	Method           string    `json:"method,omitempty" yaml:"method,omitempty"`
	ClassName        string    `json:"className,omitempty" yaml:"className,omitempty"`
	SubmitButtonText string    `json:"submitButtonText" yaml:"submitButtonText"`
	SuccessMessage   string    `json:"successMessage" yaml:"successMessage"`
	ErrorMessage     string    `json:"errorMessage" yaml:"errorMessage"`
	Sections         []Section `json:"sections" yaml:"sections"`
}

// SubmitMethod returns the configured method, defaulting to POST.
func (d *FormDefinition) SubmitMethod() string {
	if d == nil || d.Method == "" {
		return http.MethodPost
	}
	return d.Method
}

// Fields returns every field in schema order.
func (d *FormDefinition) Fields() []Field {
	if d == nil {
		return nil
	}
	var out []Field
	for _, section := range d.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field looks up a field by id.
func (d *FormDefinition) Field(id string) (Field, bool) {
	if d == nil {
		return Field{}, false
	}
	for _, section := range d.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}
