// Package validate implements the per-section form validators. Every
// validator is a pure function of the form data: it never mutates its input,
// never fails with an error, and yields the same result for the same data.
package validate

import (
	"regexp"
	"strings"

	"quire/internal/profile/models"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	websiteRe  = regexp.MustCompile(`^(https?://)?[^\s/]+\.[^\s]+$`)
	orcidRe    = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
	twitterRe  = regexp.MustCompile(`^@?[A-Za-z0-9_]{1,15}$`)
	linkedinRe = regexp.MustCompile(`^(https?://)?(www\.)?linkedin\.com/in/[A-Za-z0-9._-]+/?$`)
)

// Config selects the affiliation policy. The platform historically shipped
// two variants of the affiliation step; requiring a department is the only
// difference that survived, so it is a single switch here.
type Config struct {
	RequireDepartment bool
}

// Validator validates form sections under one policy Config. It carries no
// mutable state, so a single instance can serve every session.
type Validator struct {
	cfg Config
}

// New constructs a Validator.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Identity validates the name and email section. Last name is never required.
func (v *Validator) Identity(fd models.FormData) models.ValidationResult {
	errs := map[models.Field]string{}

	if strings.TrimSpace(fd.FirstName) == "" {
		errs[models.FieldFirstName] = "First name is required"
	}
	if strings.TrimSpace(fd.Email) == "" {
		errs[models.FieldEmail] = "Email is required"
	} else if !emailRe.MatchString(fd.Email) {
		errs[models.FieldEmail] = "Enter a valid email address"
	}

	return models.NewValidationResult(errs)
}

// Affiliation validates the institution section. Department is required only
// under the strict policy; position is unconstrained at this layer.
func (v *Validator) Affiliation(fd models.FormData) models.ValidationResult {
	errs := map[models.Field]string{}

	if strings.TrimSpace(fd.Institution) == "" {
		errs[models.FieldInstitution] = "Institution is required"
	}
	if v.cfg.RequireDepartment && strings.TrimSpace(fd.Department) == "" {
		errs[models.FieldDepartment] = "Department is required"
	}

	return models.NewValidationResult(errs)
}

// Academic validates research interests and role.
func (v *Validator) Academic(fd models.FormData) models.ValidationResult {
	errs := map[models.Field]string{}

	if len(fd.ResearchInterests) == 0 {
		errs[models.FieldResearchInterests] = "Add at least one research interest"
	}
	if fd.Role == "" {
		errs[models.FieldRole] = "Role is required"
	} else if !fd.Role.IsValid() {
		errs[models.FieldRole] = "Select a valid role"
	}

	return models.NewValidationResult(errs)
}

// Optional validates the optional-links section. Every field may be empty;
// a supplied value must match its format.
func (v *Validator) Optional(fd models.FormData) models.ValidationResult {
	errs := map[models.Field]string{}

	if fd.PersonalWebsite != "" && !websiteRe.MatchString(fd.PersonalWebsite) {
		errs[models.FieldPersonalWebsite] = "Enter a valid website URL"
	}
	if fd.OrcidID != "" && !orcidRe.MatchString(fd.OrcidID) {
		errs[models.FieldOrcidID] = "ORCID iD must look like 0000-0002-1825-0097"
	}
	if fd.Twitter != "" && !twitterRe.MatchString(fd.Twitter) {
		errs[models.FieldTwitter] = "Twitter handle must be 1-15 letters, digits, or underscores"
	}
	if fd.LinkedIn != "" && !linkedinRe.MatchString(fd.LinkedIn) {
		errs[models.FieldLinkedIn] = "Enter a linkedin.com/in/... profile URL"
	}

	return models.NewValidationResult(errs)
}

// All runs every section validator and unions the error maps, as Submit does.
func (v *Validator) All(fd models.FormData) models.ValidationResult {
	errs := map[models.Field]string{}
	for _, section := range []func(models.FormData) models.ValidationResult{
		v.Identity, v.Affiliation, v.Academic, v.Optional,
	} {
		for field, msg := range section(fd).Errors {
			errs[field] = msg
		}
	}
	return models.NewValidationResult(errs)
}
