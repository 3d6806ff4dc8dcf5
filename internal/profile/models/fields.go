package models

import (
	dErrors "quire/pkg/domain-errors"
)

// Field names a single editable slot in FormData. Values mirror the JSON tags
// so validator error maps key directly into the form payload.
type Field string

const (
	FieldFirstName         Field = "firstName"
	FieldLastName          Field = "lastName"
	FieldEmail             Field = "email"
	FieldInstitution       Field = "institution"
	FieldDepartment        Field = "department"
	FieldPosition          Field = "position"
	FieldResearchInterests Field = "researchInterests"
	FieldRole              Field = "role"
	FieldPersonalWebsite   Field = "personalWebsite"
	FieldOrcidID           Field = "orcidId"
	FieldTwitter           Field = "twitter"
	FieldLinkedIn          Field = "linkedin"
	FieldWantsToBeEditor   Field = "wantsToBeEditor"
)

// ParseField validates a field name from external input.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if _, ok := fieldKinds[f]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown field %q", s)
	}
	return f, nil
}

// restrictedFields are the identity and affiliation core fields that an
// existing profile may not re-edit through the wizard.
var restrictedFields = map[Field]bool{
	FieldFirstName:   true,
	FieldLastName:    true,
	FieldEmail:       true,
	FieldInstitution: true,
	FieldDepartment:  true,
	FieldPosition:    true,
}

// IsRestricted reports whether the field is locked once a profile exists.
func (f Field) IsRestricted() bool {
	return restrictedFields[f]
}

// Value is the tagged union carried by a field change. Exactly one variant
// exists per field kind, so handling is exhaustive rather than stringly-typed.
type Value interface {
	isValue()
}

// StringValue carries a plain-string field change.
type StringValue string

// StringListValue carries a research-interests change.
type StringListValue []string

// BoolValue carries a boolean field change.
type BoolValue bool

func (StringValue) isValue()     {}
func (StringListValue) isValue() {}
func (BoolValue) isValue()       {}

type fieldKind int

const (
	kindString fieldKind = iota
	kindStringList
	kindBool
)

var fieldKinds = map[Field]fieldKind{
	FieldFirstName:         kindString,
	FieldLastName:          kindString,
	FieldEmail:             kindString,
	FieldInstitution:       kindString,
	FieldDepartment:        kindString,
	FieldPosition:          kindString,
	FieldResearchInterests: kindStringList,
	FieldRole:              kindString,
	FieldPersonalWebsite:   kindString,
	FieldOrcidID:           kindString,
	FieldTwitter:           kindString,
	FieldLinkedIn:          kindString,
	FieldWantsToBeEditor:   kindBool,
}

// Apply writes a typed value into the named field. A value whose variant does
// not match the field kind is rejected with CodeInvalidInput. IsExistingProfile
// is not a Field and can never be written through here.
func (fd *FormData) Apply(field Field, value Value) error {
	kind, ok := fieldKinds[field]
	if !ok {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown field %q", field)
	}

	switch kind {
	case kindString:
		s, ok := value.(StringValue)
		if !ok {
			return dErrors.Newf(dErrors.CodeInvalidInput, "field %q expects a string value", field)
		}
		fd.applyString(field, string(s))
	case kindStringList:
		list, ok := value.(StringListValue)
		if !ok {
			return dErrors.Newf(dErrors.CodeInvalidInput, "field %q expects a string list value", field)
		}
		fd.ResearchInterests = append([]string(nil), list...)
	case kindBool:
		b, ok := value.(BoolValue)
		if !ok {
			return dErrors.Newf(dErrors.CodeInvalidInput, "field %q expects a boolean value", field)
		}
		fd.WantsToBeEditor = bool(b)
	}
	return nil
}

func (fd *FormData) applyString(field Field, s string) {
	switch field {
	case FieldFirstName:
		fd.FirstName = s
	case FieldLastName:
		fd.LastName = s
	case FieldEmail:
		fd.Email = s
	case FieldInstitution:
		fd.Institution = s
	case FieldDepartment:
		fd.Department = s
	case FieldPosition:
		fd.Position = s
	case FieldRole:
		fd.Role = Role(s)
	case FieldPersonalWebsite:
		fd.PersonalWebsite = s
	case FieldOrcidID:
		fd.OrcidID = s
	case FieldTwitter:
		fd.Twitter = s
	case FieldLinkedIn:
		fd.LinkedIn = s
	}
}
