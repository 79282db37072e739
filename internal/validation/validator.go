// Package validation holds the shared validator instance and the
// field-keyed error map returned to form clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Has reports whether field already has an error.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Merge copies every message from other into fe.
func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}

// GetValidator returns the singleton validator. Field names in errors come
// from the form tag, falling back to json and then the Go name.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// ValidateStruct runs struct-tag validation and returns the failures keyed by
// field name, or nil when the struct is valid.
func ValidateStruct(s interface{}) FieldErrors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	return FromError(err)
}

// FromError converts a validator error (as returned by gin binding too) into FieldErrors.
func FromError(err error) FieldErrors {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{"__all__": {err.Error()}}
	}

	out := FieldErrors{}
	for _, fe := range validationErrs {
		out.Add(fieldName(fe), Message(fe.Tag(), fe.Param()))
	}
	return out
}

// fieldName prefers the tag-derived name; gin's own validator instance
// reports Go field names, which are lower-cased here.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == fe.StructField() {
		return strings.ToLower(name)
	}
	return name
}

var messages = map[string]string{
	"required": "This field is required.",
	"email":    "Enter a valid email address.",
	"eqfield":  "The two values do not match.",
	"uuid":     "Enter a valid identifier.",
}

var messagesWithParam = map[string]string{
	"min": "Ensure this has at least %s item(s) or characters.",
	"max": "Ensure this has at most %s characters.",
	"gte": "Ensure this value is greater than or equal to %s.",
	"lte": "Ensure this value is less than or equal to %s.",
}

// Message renders a human message for a validator tag.
func Message(tag, param string) string {
	if msg, ok := messages[tag]; ok {
		return msg
	}
	if tmpl, ok := messagesWithParam[tag]; ok {
		return fmt.Sprintf(tmpl, param)
	}
	return fmt.Sprintf("Failed the %q check.", tag)
}
