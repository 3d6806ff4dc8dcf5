// Package affiliation checks claimed institutional affiliations against a
// static table of known institution email domains.
package affiliation

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed institutions.yaml
var institutionsYAML []byte

// emailShape is the minimal local@domain.tld shape; anything stricter belongs
// to the upstream identity provider.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Institution is one row of the verification table.
type Institution struct {
	Name    string `yaml:"name"`
	Domain  string `yaml:"domain"`
	Country string `yaml:"country"`
}

type registryFile struct {
	Institutions []Institution `yaml:"institutions"`
}

// Registry answers whether an email address is plausible for a claimed
// institution. It is immutable after construction.
type Registry struct {
	byName map[string]Institution
}

// NewRegistry builds a Registry from an explicit table, mostly for tests.
func NewRegistry(institutions []Institution) *Registry {
	byName := make(map[string]Institution, len(institutions))
	for _, inst := range institutions {
		byName[strings.ToLower(inst.Name)] = inst
	}
	return &Registry{byName: byName}
}

// LoadRegistry parses the embedded institution table.
func LoadRegistry() (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(institutionsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse institutions table: %w", err)
	}
	return NewRegistry(file.Institutions), nil
}

// RequiredDomain returns the email domain an institution requires, if the
// institution is known.
func (r *Registry) RequiredDomain(institutionName string) (string, bool) {
	inst, ok := r.byName[strings.ToLower(institutionName)]
	if !ok {
		return "", false
	}
	return inst.Domain, true
}

// VerifyEmailDomain reports whether email is acceptable for the claimed
// institution. Unknown institutions are not penalized. The comparison is an
// exact, case-insensitive match on the part after the last "@": a subdomain
// like mail.harvard.edu does NOT satisfy harvard.edu. That strictness is
// deliberate.
func (r *Registry) VerifyEmailDomain(email, institutionName string) bool {
	required, known := r.RequiredDomain(institutionName)
	if !known {
		return true
	}

	if !emailShape.MatchString(email) {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	return strings.EqualFold(domain, required)
}
