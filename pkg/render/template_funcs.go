package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-formflow/pkg/messages"
)

// TemplateMessageConfig configures template-level message helpers.
type TemplateMessageConfig struct {
	// LocaleKey selects the field/key used to infer locale from template data
	// when callers pass a struct or map instead of a raw string.
	LocaleKey string
	// FuncName customizes the lookup helper name (defaults to "message").
	FuncName string
}

// TemplateMessageFuncs returns helpers for template engines backed by bundle:
//
//	message(localeSrc, key) string
//	current_locale(localeSrc) string
//
// localeSrc can be a locale string or a map/struct holding one under
// cfg.LocaleKey. Unknown keys render as the key itself.
func TemplateMessageFuncs(bundle *messages.Bundle, cfg TemplateMessageConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}

	funcName := strings.TrimSpace(cfg.FuncName)
	if funcName == "" {
		funcName = "message"
	}
	if bundle == nil {
		bundle = messages.Default()
	}

	return map[string]any{
		funcName: func(localeSrc any, key string) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			return bundle.Catalog(resolveLocale(localeSrc, localeKey)).Get(key)
		},
		"current_locale": func(localeSrc any) string {
			return resolveLocale(localeSrc, localeKey)
		},
	}
}

func resolveLocale(src any, key string) string {
	if src == nil {
		return ""
	}

	if str, ok := src.(string); ok {
		return str
	}

	if key == "" {
		return ""
	}

	switch data := src.(type) {
	case map[string]any:
		if v, ok := data[key]; ok {
			if str, ok := v.(string); ok {
				return str
			}
			if str := strings.TrimSpace(fmt.Sprint(v)); str != "" {
				return str
			}
		}
	case map[string]string:
		if v, ok := data[key]; ok {
			return v
		}
	}

	value := reflect.ValueOf(src)
	for value.IsValid() && value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}

	if !value.IsValid() {
		return ""
	}

	switch value.Kind() {
	case reflect.Struct:
		field := value.FieldByNameFunc(func(name string) bool {
			return name == key
		})
		if field.IsValid() && field.Kind() == reflect.String {
			return field.String()
		}
	case reflect.Map:
		if value.Type().Key().Kind() == reflect.String {
			val := value.MapIndex(reflect.ValueOf(key))
			if val.IsValid() && val.Kind() == reflect.String {
				return val.String()
			}
		}
	}

	return ""
}
