package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of a candidate and folds failures into one VALIDATION error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Validation("%v", err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
		case "max":
			msgs = append(msgs, strings.ToLower(fe.Field())+" must be at most "+fe.Param()+" characters")
		case "email":
			msgs = append(msgs, "email is not a valid address")
		default:
			msgs = append(msgs, strings.ToLower(fe.Field())+" is invalid")
		}
	}
	return Validation("%s", strings.Join(msgs, "; "))
}
