package handler

import (
	"encoding/json"

	"github.com/asaskevich/govalidator"

	"quire/internal/profile/models"
	dErrors "quire/pkg/domain-errors"
)

// StartWizardRequest opens a new wizard session.
type StartWizardRequest struct {
	// Edit seeds the session from the caller's stored profile.
	Edit bool `json:"edit"`
	// Email optionally pre-fills the identity step for new profiles.
	Email string `json:"email,omitempty"`
}

func (r *StartWizardRequest) Validate() error {
	if r.Email != "" && (!govalidator.IsEmail(r.Email) || !govalidator.StringLength(r.Email, "3", "255")) {
		return dErrors.New(dErrors.CodeBadRequest, "email must be a valid address")
	}
	return nil
}

// ChangeFieldRequest carries one typed field edit. Value's JSON type must
// match the field kind: string, array of strings, or boolean.
type ChangeFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// Decode resolves the field name and the tagged value variant.
func (r *ChangeFieldRequest) Decode() (models.Field, models.Value, error) {
	field, err := models.ParseField(r.Field)
	if err != nil {
		return "", nil, err
	}

	var raw any
	if err := json.Unmarshal(r.Value, &raw); err != nil {
		return "", nil, dErrors.New(dErrors.CodeBadRequest, "value must be valid JSON")
	}

	switch v := raw.(type) {
	case string:
		return field, models.StringValue(v), nil
	case bool:
		return field, models.BoolValue(v), nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return "", nil, dErrors.New(dErrors.CodeBadRequest, "value list may only contain strings")
			}
			list = append(list, s)
		}
		return field, models.StringListValue(list), nil
	default:
		return "", nil, dErrors.New(dErrors.CodeBadRequest, "value must be a string, string list, or boolean")
	}
}

// GoToStepRequest jumps to an already-reached step.
type GoToStepRequest struct {
	Step int `json:"step"`
}
