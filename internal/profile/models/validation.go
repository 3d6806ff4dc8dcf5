package models

// ValidationResult reports the outcome of validating one form section.
// Invariant: IsValid is true iff Errors is empty. Construct via
// NewValidationResult so the equivalence always holds.
type ValidationResult struct {
	IsValid bool             `json:"isValid"`
	Errors  map[Field]string `json:"errors"`
}

// NewValidationResult builds a result from an error map, deriving IsValid.
// A nil map is normalized to an empty one so callers can range freely.
func NewValidationResult(errs map[Field]string) ValidationResult {
	if errs == nil {
		errs = map[Field]string{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
