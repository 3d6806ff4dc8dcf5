// Package models holds the profile wizard's data model: the mutable form
// state owned by a wizard session, the external user profile it translates to
// and from, and the typed field-change payloads section forms submit.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the academic role a user claims on their profile.
type Role string

const (
	RoleResearcher   Role = "Researcher"
	RoleProfessor    Role = "Professor"
	RoleStudent      Role = "Student"
	RoleLibrarian    Role = "Librarian"
	RolePractitioner Role = "Practitioner"
)

var validRoles = map[Role]bool{
	RoleResearcher:   true,
	RoleProfessor:    true,
	RoleStudent:      true,
	RoleLibrarian:    true,
	RolePractitioner: true,
}

// IsValid reports whether the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// FormData is the wizard's working copy of a profile. It is owned exclusively
// by one wizard session and mutated only through Wizard.ChangeField.
type FormData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`

	Institution string `json:"institution"`
	Department  string `json:"department"`
	Position    string `json:"position"`

	ResearchInterests []string `json:"researchInterests"`
	Role              Role     `json:"role"`

	PersonalWebsite string `json:"personalWebsite"`
	OrcidID         string `json:"orcidId"`
	Twitter         string `json:"twitter"`
	LinkedIn        string `json:"linkedin"`
	WantsToBeEditor bool   `json:"wantsToBeEditor"`

	// IsExistingProfile records whether the session was seeded from a
	// persisted profile. Set once at session start; field edits never
	// change it.
	IsExistingProfile bool `json:"isExistingProfile"`
}

// NewFormData returns form state for a brand-new profile.
func NewFormData() FormData {
	return FormData{
		ResearchInterests: []string{},
		Role:              RoleResearcher,
	}
}

// UserProfile is the externally-owned profile representation. The wizard only
// reads it (to seed an edit session) and produces updates against it.
type UserProfile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`

	Institution string `json:"institution,omitempty"`
	Department  string `json:"department,omitempty"`
	Position    string `json:"position,omitempty"`

	ResearchInterests []string `json:"researchInterests,omitempty"`
	Role              Role     `json:"role,omitempty"`

	PersonalWebsite string `json:"personalWebsite,omitempty"`
	OrcidID         string `json:"orcidId,omitempty"`
	Twitter         string `json:"twitter,omitempty"`
	LinkedIn        string `json:"linkedin,omitempty"`
	WantsToBeEditor bool   `json:"wantsToBeEditor"`

	ProfileComplete bool `json:"profileComplete"`
	IsComplete      bool `json:"isComplete"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// UserProfileUpdate is the partial profile a successful submission produces.
// Optional fields are pointers: nil means "omitted", so persisting an update
// never overwrites an existing value with a blank.
type UserProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`

	Institution string `json:"institution"`
	Department  string `json:"department,omitempty"`
	Position    string `json:"position,omitempty"`

	ResearchInterests []string `json:"researchInterests"`
	Role              Role     `json:"role"`

	PersonalWebsite *string `json:"personalWebsite,omitempty"`
	OrcidID         *string `json:"orcidId,omitempty"`
	Twitter         *string `json:"twitter,omitempty"`
	LinkedIn        *string `json:"linkedin,omitempty"`
	WantsToBeEditor bool    `json:"wantsToBeEditor"`

	// Forced true on every successful submission.
	ProfileComplete bool `json:"profileComplete"`
	IsComplete      bool `json:"isComplete"`
}
