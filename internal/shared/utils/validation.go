package utils

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// String length limits
const (
	MaxIDLength      = 128
	MaxNameLength    = 256
	MaxMessageLength = 16 * 1024
	MaxSubjectLength = 512
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

func validate() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return structValidator
}

// ValidateStruct runs the `validate` tags on v and converts the first
// failure into a *types.ValidationError
func ValidateStruct(v interface{}) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &types.ValidationError{
			Field:  strings.ToLower(fe.Field()),
			Reason: describeTag(fe),
		}
	}
	return &types.ValidationError{Field: "input", Reason: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must not be before %s", strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return &types.ValidationError{Field: fieldName, Reason: "is required"}
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return &types.ValidationError{Field: fieldName, Reason: fmt.Sprintf("must be at least %d characters", minLen)}
	}
	if length > maxLen {
		return &types.ValidationError{Field: fieldName, Reason: fmt.Sprintf("must not exceed %d characters", maxLen)}
	}

	if strings.Contains(value, "\x00") {
		return &types.ValidationError{Field: fieldName, Reason: "contains invalid characters"}
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return &types.ValidationError{Field: fieldName, Reason: "only alphanumeric, hyphens, and underscores allowed"}
	}

	return nil
}

// ValidateName validates a display name
func ValidateName(name, fieldName string) error {
	return ValidateString(name, fieldName, 1, MaxNameLength, true)
}

// ValidateMessageText validates chat text. Empty text is allowed when the
// message carries an image instead.
func ValidateMessageText(text string, hasImage bool) error {
	if text == "" && hasImage {
		return nil
	}
	return ValidateString(text, "text", 1, MaxMessageLength, true)
}
