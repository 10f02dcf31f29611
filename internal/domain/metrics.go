package domain

import "time"

// TriState is a boolean that may be unknown.
type TriState int

const (
	Unknown TriState = iota
	Yes
	No
)

// TriStateOf converts an optional bool.
func TriStateOf(b *bool) TriState {
	switch {
	case b == nil:
		return Unknown
	case *b:
		return Yes
	default:
		return No
	}
}

// MetricsRecord is the merged result of one completed query.
// Nil pointers mean the provider did not report the value.
type MetricsRecord struct {
	Domain    string
	FetchedAt time.Time

	MozDA      *float64
	MozPA      *float64
	MajesticTF *float64
	MajesticCF *float64

	ReferringDomains *int64
	Backlinks        *int64

	EstimatedValue *float64
	Indexed        TriState
	Drops          int64

	ExpirationDate *time.Time
	DomainAgeDays  *int

	Redirects []string
}

// AuthorityMetrics is the authority/link provider's contribution.
// Every field is optional.
type AuthorityMetrics struct {
	MozDA            *float64
	MozPA            *float64
	MajesticTF       *float64
	MajesticCF       *float64
	ReferringDomains *int64
	Backlinks        *int64
}

// RedirectPage is one page of the redirect history provider.
type RedirectPage struct {
	Total   int
	Domains []string
}

// WhoisDates holds the raw WHOIS date strings. Empty means absent.
type WhoisDates struct {
	CreationDate   string
	ExpirationDate string
}
