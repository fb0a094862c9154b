// Package validation checks request DTOs and reports failures in the backend's field-map shape.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
)

// Validator checks request DTOs and reports failures in the backend's field-map shape.
type Validator struct {
	validate *validator.Validate
}

// BackendTag holds the field rules the sandbox backend enforces. The client reads only
// the presence checks under the validate tag and leaves the rest to the backend.
const BackendTag = "backend"

// New builds the client-side Validator. Fields are named by their JSON tag.
func New() *Validator {
	return newValidator("validate")
}

// NewBackend builds the Validator the sandbox binds requests with.
func NewBackend() *Validator {
	return newValidator(BackendTag)
}

func newValidator(tag string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(tag)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return &Validator{validate: v}
}

// Struct validates s. Field failures come back as a *domainerrors.ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate request")
	}

	fields := make([]domainerrors.Field, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, domainerrors.Field{Name: fe.Field(), Message: fieldMessage(fe)})
	}

	return domainerrors.NewValidationError(fields...)
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}

		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}

		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s is out of range", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.Struct(i)
}
