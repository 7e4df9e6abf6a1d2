package validator

import "fmt"

// RecordValidator checks incoming record payloads against a resource's
// required-field list before they reach the store.
type RecordValidator struct{}

// NewRecordValidator creates a new record validator.
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors"`
}

// ValidateRequired verifies that every required field is present and
// non-empty. Nil values and empty strings count as missing.
func (rv *RecordValidator) ValidateRequired(record map[string]any, required []string) ValidationResult {
	result := ValidationResult{IsValid: true, Errors: []ValidationError{}}
	for _, field := range required {
		value, exists := record[field]
		if !exists || value == nil || isEmptyString(value) {
			result.IsValid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("required field '%s' is missing", field),
			})
		}
	}
	return result
}

func isEmptyString(value any) bool {
	text, ok := value.(string)
	return ok && text == ""
}

// FirstMessage returns the first error message, or an empty string when the
// result is valid.
func (r ValidationResult) FirstMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}
