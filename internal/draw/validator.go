package draw

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"drawstream/internal/color"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Validator: validation and sanitization of draw message params
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("finite", validateFinite)
	_ = v.RegisterValidation("color", validateColor)

	return &Validator{
		validate: v,
		// removes all HTML/scripts
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ValidateMoving: checks a MOVING payload built in-process
func (v *Validator) ValidateMoving(p OrderedParamsMoving) error {
	return v.check(p)
}

// SanitizeColor: strips markup from a color token and returns its canonical form
func (v *Validator) SanitizeColor(token string) string {
	clean := strings.TrimSpace(v.sanitizer.Sanitize(token))
	if normalized, err := color.Normalize(clean); err == nil {
		return normalized
	}
	return clean
}

func (v *Validator) check(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

func validateColor(fl validator.FieldLevel) bool {
	return color.Valid(fl.Field().String())
}

// formatValidationErrors: reports the first failing field
func formatValidationErrors(errs validator.ValidationErrors) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, formatSingleError(errs[0]))
}

func formatSingleError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "finite":
		return fmt.Sprintf("'%s' must be a finite number", field)
	case "max":
		return fmt.Sprintf("'%s' is too long", field)
	case "color":
		return fmt.Sprintf("'%s' is not a valid color", field)
	default:
		return fmt.Sprintf("'%s' is invalid", field)
	}
}
