package wizard

import (
	"fmt"
	"net/mail"

	"ficore/internal/errs"
)

// FieldKind selects a field's validation rule.
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindAmount
	KindRate
	KindSelect
	KindCheckbox
)

// maxAmount caps money fields; values past it are almost certainly typos.
const maxAmount = 1e10

// FieldSpec declares one form field: its name, kind and constraints.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string // KindSelect only
}

// validate returns a user-facing message for a bad raw value, or "".
func (s FieldSpec) validate(raw string) string {
	if raw == "" {
		if s.Required {
			return fmt.Sprintf("%s is required", s.Label)
		}
		return ""
	}
	switch s.Kind {
	case KindEmail:
		if _, err := mail.ParseAddress(raw); err != nil {
			return "Invalid email address"
		}
	case KindAmount:
		v, err := ParseAmount(raw)
		if err != nil {
			return "Invalid number"
		}
		if v < 0 {
			return fmt.Sprintf("%s must be non-negative", s.Label)
		}
		if v > maxAmount {
			return fmt.Sprintf("%s is out of range", s.Label)
		}
	case KindRate:
		v, err := ParseAmount(raw)
		if err != nil {
			return "Invalid number"
		}
		if v < 0 || v > 100 {
			return fmt.Sprintf("%s must be between 0 and 100", s.Label)
		}
	case KindSelect:
		for _, opt := range s.Options {
			if raw == opt {
				return ""
			}
		}
		return fmt.Sprintf("%s has an invalid choice", s.Label)
	}
	return ""
}

// Validate checks every field of a step against the submitted form and
// aggregates problems into one ValidationError.
func Validate(specs []FieldSpec, form Form) error {
	problems := make(map[string]string)
	for _, spec := range specs {
		if msg := spec.validate(form.Get(spec.Name)); msg != "" {
			problems[spec.Name] = msg
		}
	}
	if len(problems) > 0 {
		return &errs.ValidationError{Fields: problems}
	}
	return nil
}
