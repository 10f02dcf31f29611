// Package domain contains the core business entities and rules.
package domain

import (
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// domainRegex accepts dot-terminated labels of letters, digits, hyphen and
// underscore followed by a 2-63 letter top-level label. No scheme, no path.
var domainRegex = regexp.MustCompile(`(?i)^([a-z0-9_-]+\.)+[a-z]{2,63}$`)

// ValidateDomain reports whether s is an acceptable domain. Case-insensitive.
func ValidateDomain(s string) bool {
	return domainRegex.MatchString(s)
}

// DomainQuery is a validated, lower-cased domain name.
// The zero value is not a valid query; build one with NewDomainQuery.
type DomainQuery struct {
	name string
}

// NewDomainQuery lower-cases and validates raw.
// Returns ErrInvalidDomain if the input is rejected.
func NewDomainQuery(raw string) (DomainQuery, error) {
	name := strings.ToLower(raw)
	if !ValidateDomain(name) {
		return DomainQuery{}, ErrInvalidDomain
	}
	return DomainQuery{name: name}, nil
}

// String returns the normalized domain.
func (q DomainQuery) String() string {
	return q.name
}

// IsZero reports whether q was never constructed.
func (q DomainQuery) IsZero() bool {
	return q.name == ""
}

// PublicSuffix returns the public suffix of the domain and whether it is
// managed by ICANN (as opposed to a privately registered suffix).
func (q DomainQuery) PublicSuffix() (suffix string, icann bool) {
	return publicsuffix.PublicSuffix(q.name)
}
