package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Validator wraps go-playground/validator with the checks the booking
// flows need outside of request binding.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// NormalizeEmail lower-cases and trims an address for storage and comparison
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email reports whether email is a syntactically valid address
func (v *Validator) Email(email string) error {
	if err := v.v.Var(strings.TrimSpace(email), "required,max=254,email"); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ID parses a required uuid identifier; field names the input in errors
func (v *Validator) ID(field, value string) (uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", field)
	}
	return id, nil
}

// FieldError is the first failed `binding` rule of a struct
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Struct runs the `binding` tags on obj and flattens the first failure
// into a *FieldError
func (v *Validator) Struct(obj interface{}) error {
	err := v.v.Struct(obj)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}

	e := errs[0]
	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", e.Field())
	case "max":
		msg = fmt.Sprintf("%s must not exceed %s", e.Field(), e.Param())
	case "min", "gte":
		msg = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", e.Field())
	}
	return &FieldError{Field: e.Field(), Message: msg}
}

// ValidateStruct lets gin's binding use this validator
func (v *Validator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	return v.Struct(obj)
}

// Engine exposes the underlying go-playground validator
func (v *Validator) Engine() interface{} {
	return v.v
}
