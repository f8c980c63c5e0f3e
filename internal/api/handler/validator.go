package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tagMessages maps validation tags to user-facing phrasings. %s is the field
// name; %v the tag parameter where one applies.
var tagMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email",
	"eqfield":  "%s must match %v",
	"gt":       "%s must be greater than %v",
	"min":      "%s must be at least %v",
	"oneof":    "%s must be one of: %v",
}

// echoValidator adapts go-playground/validator to Echo's Validator interface,
// flattening failures into one user-facing message per form submission.
type echoValidator struct {
	v *validator.Validate
}

func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, len(ve))
	for i, fe := range ve {
		msgs[i] = fieldError(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	format, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	if strings.Contains(format, "%v") {
		return fmt.Sprintf(format, field, strings.ToLower(fe.Param()))
	}
	return fmt.Sprintf(format, field)
}
