package validator

import (
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/jwalitptl/rx-admin/pkg/errors"
)

// Validator checks request payloads and reports problems per JSON field
type Validator interface {
	Validate(interface{}) error
	Engine() *playground.Validate
}

type validator struct {
	v *playground.Validate
}

var messages = map[string]string{
	"required": "this field is required",
	"datetime": "date has wrong format, use YYYY-MM-DD",
}

func New() Validator {
	v := playground.New()
	RegisterJSONTagNames(v)
	return &validator{v: v}
}

// RegisterJSONTagNames makes field errors carry JSON names
func RegisterJSONTagNames(v *playground.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

func (v *validator) Engine() *playground.Validate {
	return v.v
}

// Validate returns nil or an *errors.AppError with a field map
func (v *validator) Validate(obj interface{}) error {
	err := v.v.Struct(obj)
	if err == nil {
		return nil
	}
	verrs, ok := err.(playground.ValidationErrors)
	if !ok {
		return errors.BadRequest("invalid payload", err)
	}
	return FromValidationErrors(verrs)
}

// FromValidationErrors converts go-playground errors into a field map
func FromValidationErrors(verrs playground.ValidationErrors) *errors.AppError {
	fields := map[string][]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], Message(fe))
	}
	return errors.Validation(fields)
}

// Message renders one field error
func Message(fe playground.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice", fmt.Sprint(fe.Value()))
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
