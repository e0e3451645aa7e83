package validation

import (
	"fmt"
	"strings"
)

// Kind classifies a validation or binding failure.
type Kind string

const (
	KindTypeMismatch  Kind = "TypeMismatch"
	KindRequired      Kind = "Required"
	KindRange         Kind = "Range"
	KindMax           Kind = "Max"
	KindCrossFieldMin Kind = "CrossFieldMin"
)

const CodeTypeMismatch = "typeMismatch"

// Error is a single field or object scoped failure. Field is empty for
// object scoped errors.
type Error struct {
	Object         string   `json:"objectName"`
	Field          string   `json:"field,omitempty"`
	FieldType      string   `json:"-"`
	RejectedValue  any      `json:"rejectedValue,omitempty"`
	BindingFailure bool     `json:"bindingFailure"`
	Kind           Kind     `json:"kind"`
	Code           string   `json:"code"`
	Codes          []string `json:"codes"`
	Args           []any    `json:"arguments,omitempty"`
	DefaultMessage string   `json:"defaultMessage,omitempty"`
}

func (e Error) IsGlobal() bool {
	return e.Field == ""
}

func (e Error) String() string {
	var b strings.Builder
	if e.IsGlobal() {
		fmt.Fprintf(&b, "object '%s'", e.Object)
	} else {
		fmt.Fprintf(&b, "field '%s.%s'", e.Object, e.Field)
	}
	fmt.Fprintf(&b, ": code=%s", e.Code)
	if len(e.Args) > 0 {
		fmt.Fprintf(&b, " args=%v", e.Args)
	}
	if !e.IsGlobal() {
		fmt.Fprintf(&b, " rejected=%v", e.RejectedValue)
	}
	return b.String()
}

// Errors collects the failures for one bound object in the order they were
// reported.
type Errors struct {
	object string
	list   []Error
}

func NewErrors(object string) *Errors {
	return &Errors{object: object}
}

func (e *Errors) ObjectName() string {
	return e.object
}

// Reject records an object scoped error.
func (e *Errors) Reject(kind Kind, code string, args []any, defaultMessage string) {
	e.list = append(e.list, Error{
		Object:         e.object,
		Kind:           kind,
		Code:           code,
		Codes:          ResolveMessageCodes(code, e.object),
		Args:           args,
		DefaultMessage: defaultMessage,
	})
}

// RejectValue records a field scoped error for a value that was bound but
// failed a constraint.
func (e *Errors) RejectValue(field, fieldType string, value any, kind Kind, code string, args []any, defaultMessage string) {
	e.list = append(e.list, Error{
		Object:         e.object,
		Field:          field,
		FieldType:      fieldType,
		RejectedValue:  value,
		Kind:           kind,
		Code:           code,
		Codes:          ResolveFieldMessageCodes(code, e.object, field, fieldType),
		Args:           args,
		DefaultMessage: defaultMessage,
	})
}

// AddBindingFailure records a raw value that could not be converted to the
// field's type.
func (e *Errors) AddBindingFailure(field, fieldType, raw string) {
	e.list = append(e.list, Error{
		Object:         e.object,
		Field:          field,
		FieldType:      fieldType,
		RejectedValue:  raw,
		BindingFailure: true,
		Kind:           KindTypeMismatch,
		Code:           CodeTypeMismatch,
		Codes:          ResolveFieldMessageCodes(CodeTypeMismatch, e.object, field, fieldType),
		Args:           []any{field},
		DefaultMessage: fmt.Sprintf("Failed to convert value %q for field %s", raw, field),
	})
}

func (e *Errors) HasErrors() bool {
	return e != nil && len(e.list) > 0
}

func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.list)
}

func (e *Errors) All() []Error {
	if e == nil {
		return nil
	}
	out := make([]Error, len(e.list))
	copy(out, e.list)
	return out
}

func (e *Errors) HasFieldErrors(field string) bool {
	return len(e.FieldErrors(field)) > 0
}

func (e *Errors) FieldErrors(field string) []Error {
	if e == nil || field == "" {
		return nil
	}
	var out []Error
	for _, fe := range e.list {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// FieldError returns the first error recorded for field.
func (e *Errors) FieldError(field string) (Error, bool) {
	errs := e.FieldErrors(field)
	if len(errs) == 0 {
		return Error{}, false
	}
	return errs[0], true
}

func (e *Errors) hasBindingFailure(field string) bool {
	for _, fe := range e.FieldErrors(field) {
		if fe.BindingFailure {
			return true
		}
	}
	return false
}

func (e *Errors) GlobalErrors() []Error {
	if e == nil {
		return nil
	}
	var out []Error
	for _, ge := range e.list {
		if ge.IsGlobal() {
			out = append(out, ge)
		}
	}
	return out
}

// Err returns the collection as an error, or nil when nothing was rejected.
func (e *Errors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	if !e.HasErrors() {
		return "no errors"
	}
	parts := make([]string, 0, len(e.list))
	for _, item := range e.list {
		parts = append(parts, item.String())
	}
	return fmt.Sprintf("%d errors for %s: %s", len(e.list), e.object, strings.Join(parts, "; "))
}
