// Package validation wraps go-playground/validator with binfinder's rules.
//
// One Validator checks both directions of the wire: form input before it is
// sent to the backend, and decoded backend payloads before they are trusted.
// Field names in errors use the json tag, so messages match what users and
// the backend see.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	hexColorRe   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorRe  = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[0-9.,%\s/deg]+\)$`)
	namedColorRe = regexp.MustCompile(`^[a-zA-Z]{3,30}$`)
)

// IsCSSColor reports whether s is a CSS color value this module accepts:
// hex notation, rgb()/rgba()/hsl()/hsla(), or a named color keyword.
func IsCSSColor(s string) bool {
	s = strings.TrimSpace(s)
	return hexColorRe.MatchString(s) ||
		funcColorRe.MatchString(strings.ToLower(s)) ||
		namedColorRe.MatchString(s)
}

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors is returned when a value fails validation.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// UserMessage returns the errors as a single sentence for display.
func (e Errors) UserMessage() string {
	return e.Error()
}

// Validator validates structs using tags plus the custom rules below.
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// Default returns the shared validator instance.
func Default() *Validator {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a validator with json tag names and custom rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for malformed or reserved tags.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("csscolor", func(fl validator.FieldLevel) bool {
		return IsCSSColor(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates a struct and returns Errors on failure.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe.Tag(), fe.Param()),
		})
	}
	return out
}

// Slice validates every element of a slice of structs. The first failing
// element is reported with its index.
func Slice[T any](v *Validator, items []T) error {
	for i := range items {
		if err := v.Struct(items[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func message(tag, param string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "gt":
		return fmt.Sprintf("must be greater than %s", param)
	case "csscolor":
		return "must be a CSS color (e.g. #4caf50, rgb(0,128,0) or green)"
	case "http_url":
		return "must be an absolute http(s) URL"
	default:
		return fmt.Sprintf("failed %s validation", tag)
	}
}
