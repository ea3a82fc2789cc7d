package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iiroan/prism/internal/theme"
)

// ErrInvalidPreferences is returned when a dispatched intent would leave the
// store in an invalid state.
var ErrInvalidPreferences = errors.New("invalid preferences")

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New(validator.WithRequiredStructEnabled())
		// Palette entries must resolve to their own colors.
		_ = validateInst.RegisterValidation("swatch", func(fl validator.FieldLevel) bool {
			_, ok := theme.SwatchByName(fl.Field().String())
			return ok
		})
	})
	return validateInst
}

// Validate checks p against its field constraints.
func Validate(p Preferences) error {
	err := validatorInstance().Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidPreferences, strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "swatch":
		return fmt.Sprintf("%s has no built-in swatch for %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
