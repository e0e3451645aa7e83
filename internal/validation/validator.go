// Package validation collects field and object scoped errors for bound form
// values. Field constraints are declared with struct tags and checked by
// go-playground/validator; rules spanning several fields are plain closures
// run after the field pass.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagNotBlank rejects strings that are empty after trimming whitespace.
const TagNotBlank = "notblank"

// FieldRule describes how a failed struct tag is reported. When Constraint is
// set, Tag is registered as an alias for it so that the failure is reported
// under Tag regardless of which underlying check failed.
type FieldRule struct {
	Tag        string
	Constraint string
	Kind       Kind
	Code       string
	Args       []any
	Message    string
}

// ObjectRule checks a bound value as a whole and rejects into errs.
type ObjectRule[T any] func(target *T, errs *Errors)

// Validator runs declarative field constraints followed by object rules.
// It is safe for concurrent use once all rules are registered.
type Validator[T any] struct {
	validate    *validator.Validate
	fieldRules  map[string]FieldRule
	objectRules []ObjectRule[T]
}

func New[T any]() (*Validator[T], error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	out := &Validator[T]{
		validate:   v,
		fieldRules: make(map[string]FieldRule),
	}
	// The library only ships notblank in its non-standard package.
	if err := out.registerCheck(TagNotBlank, notBlank); err != nil {
		return nil, err
	}
	return out, nil
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return !field.IsZero()
	}
	return strings.TrimSpace(field.String()) != ""
}

func (v *Validator[T]) registerCheck(tag string, fn validator.Func) error {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register check %q: %w", tag, err)
	}
	return nil
}

// RegisterFieldRule makes rule.Tag usable in `validate` struct tags.
func (v *Validator[T]) RegisterFieldRule(rule FieldRule) error {
	if strings.TrimSpace(rule.Tag) == "" {
		return errors.New("field rule tag is required")
	}
	if rule.Code == "" {
		return fmt.Errorf("field rule %s: code is required", rule.Tag)
	}
	if rule.Constraint != "" {
		v.validate.RegisterAlias(rule.Tag, rule.Constraint)
	}
	v.fieldRules[rule.Tag] = rule
	return nil
}

func (v *Validator[T]) RegisterObjectRule(rule ObjectRule[T]) {
	if rule == nil {
		return
	}
	v.objectRules = append(v.objectRules, rule)
}

// Validate appends every failure for target to errs: field errors in struct
// field order, then object errors in registration order. Fields that already
// carry a binding failure are not checked again.
func (v *Validator[T]) Validate(target *T, errs *Errors) {
	if target == nil || errs == nil {
		return
	}

	if err := v.validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if errs.hasBindingFailure(fe.Field()) {
					continue
				}
				v.rejectField(fe, errs)
			}
		}
	}

	for _, rule := range v.objectRules {
		rule(target, errs)
	}
}

func (v *Validator[T]) rejectField(fe validator.FieldError, errs *Errors) {
	rule, ok := v.fieldRules[fe.Tag()]
	if !ok {
		rule = FieldRule{
			Kind:    Kind(fe.Tag()),
			Code:    fe.Tag(),
			Message: fmt.Sprintf("%s failed on the '%s' check", fe.Field(), fe.Tag()),
		}
		if fe.Param() != "" {
			rule.Args = []any{fe.Param()}
		}
	}
	errs.RejectValue(fe.Field(), fieldTypeName(fe.Type()), rejectedValue(fe.Value()), rule.Kind, rule.Code, rule.Args, rule.Message)
}

func fieldTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

func rejectedValue(value any) any {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
