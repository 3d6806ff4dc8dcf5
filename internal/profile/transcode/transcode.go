// Package transcode maps between the wizard's working form state and the
// externally-owned user profile representation.
package transcode

import (
	"strings"

	"github.com/google/uuid"

	"quire/internal/profile/models"
	dErrors "quire/pkg/domain-errors"
)

// DomainVerifier gates new affiliation claims on institutional email domains.
type DomainVerifier interface {
	VerifyEmailDomain(email, institutionName string) bool
	RequiredDomain(institutionName string) (string, bool)
}

// ToUserProfile converts completed form data into a profile update. Optional
// strings map to nil when empty so persistence never overwrites existing
// values with blanks. ProfileComplete and IsComplete are forced true.
//
// When creating a new profile (editMode false) with both institution and
// email present, the claimed affiliation must pass domain verification;
// a mismatch aborts the whole translation with CodeDomainMismatch. Edit mode
// never re-verifies: identity and affiliation were locked at creation.
func ToUserProfile(fd models.FormData, editMode bool, verifier DomainVerifier) (*models.UserProfileUpdate, error) {
	if !editMode && fd.Institution != "" && fd.Email != "" {
		if !verifier.VerifyEmailDomain(fd.Email, fd.Institution) {
			if required, ok := verifier.RequiredDomain(fd.Institution); ok {
				return nil, dErrors.Newf(dErrors.CodeDomainMismatch,
					"%s requires a @%s email address", fd.Institution, required)
			}
			return nil, dErrors.Newf(dErrors.CodeDomainMismatch,
				"email domain does not match %s", fd.Institution)
		}
	}

	update := &models.UserProfileUpdate{
		Name:              strings.TrimSpace(fd.FirstName + " " + fd.LastName),
		Email:             fd.Email,
		Institution:       fd.Institution,
		Department:        fd.Department,
		Position:          fd.Position,
		ResearchInterests: append([]string(nil), fd.ResearchInterests...),
		Role:              fd.Role,
		PersonalWebsite:   optional(fd.PersonalWebsite),
		OrcidID:           optional(fd.OrcidID),
		Twitter:           optional(fd.Twitter),
		LinkedIn:          optional(fd.LinkedIn),
		WantsToBeEditor:   fd.WantsToBeEditor,
		ProfileComplete:   true,
		IsComplete:        true,
	}
	return update, nil
}

// FromUserProfile derives wizard form state from a stored profile. The name
// splits on the first space: everything after it is the last name. Absent
// fields default to their zero values; role defaults to Researcher.
func FromUserProfile(p models.UserProfile) models.FormData {
	fd := models.NewFormData()

	first, last := splitName(p.Name)
	fd.FirstName = first
	fd.LastName = last
	fd.Email = p.Email
	fd.Institution = p.Institution
	fd.Department = p.Department
	fd.Position = p.Position
	if len(p.ResearchInterests) > 0 {
		fd.ResearchInterests = append([]string(nil), p.ResearchInterests...)
	}
	if p.Role != "" {
		fd.Role = p.Role
	}
	fd.PersonalWebsite = p.PersonalWebsite
	fd.OrcidID = p.OrcidID
	fd.Twitter = p.Twitter
	fd.LinkedIn = p.LinkedIn
	fd.WantsToBeEditor = p.WantsToBeEditor

	// Provenance: the profile "exists" only when it carries an identifier,
	// a creation timestamp, and a name. Fixed for the session's lifetime.
	fd.IsExistingProfile = p.ID != uuid.Nil && !p.CreatedAt.IsZero() && p.Name != ""

	return fd
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
