package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDefinitionMissing is wrapped by ConfigError when a form definition is
	// nil or absent from a store.
	ErrDefinitionMissing = errors.New("form definition missing")
	// ErrOptionsMissing marks select/checkbox/radio fields without options.
	ErrOptionsMissing = errors.New("option list missing")
	// ErrInvalidPattern marks validation patterns that do not compile.
	ErrInvalidPattern = errors.New("invalid validation pattern")
)

// ConfigError reports a schema problem detected at setup time. Configuration
// errors are fatal: nothing is rendered for a definition that produced one.
type ConfigError struct {
	Form   string
	Field  string
	Reason string
	Err    error
}

// NewConfigError builds a ConfigError. err may be nil.
func NewConfigError(form, field, reason string, err error) *ConfigError {
	return &ConfigError{Form: form, Field: field, Reason: reason, Err: err}
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("model: config error")
	if e.Form != "" {
		fmt.Fprintf(&b, ": form %q", e.Form)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err carries a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
