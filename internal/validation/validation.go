// Package validation checks producto records and drafts against the field
// rules shared by the editor and the backend API.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is a single failed field rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Violations is the set of failed rules for one value, ordered by field.
type Violations []Violation

// Has reports whether field failed any rule.
func (vs Violations) Has(field string) bool {
	for _, v := range vs {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the failed field names.
func (vs Violations) Fields() []string {
	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		fields = append(fields, v.Field)
	}
	return fields
}

// Map returns field -> message, the shape used in API error bodies.
func (vs Violations) Map() map[string]string {
	m := make(map[string]string, len(vs))
	for _, v := range vs {
		m[v.Field] = v.Message
	}
	return m
}

func (vs Violations) Error() string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so violations match the wire shape.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs the struct rules of s and returns the violations, or nil.
func Validate(s interface{}) Violations {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Violations{{Field: "", Rule: "invalid", Message: err.Error()}}
	}

	violations := make(Violations, 0, len(validationErrors))
	for _, e := range validationErrors {
		violations = append(violations, Violation{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: message(e),
		})
	}
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Field < violations[j].Field
	})
	return violations
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("el campo '%s' es obligatorio", e.Field())
	case "min":
		return fmt.Sprintf("el campo '%s' debe tener al menos %s caracteres", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("el campo '%s' debe ser mayor o igual a %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}
