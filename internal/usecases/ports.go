package usecases

import (
	"context"

	"domain-metrics/internal/domain"
)

// AuthorityProvider returns authority and link metrics for a domain.
type AuthorityProvider interface {
	FetchAuthority(ctx context.Context, q domain.DomainQuery) (domain.AuthorityMetrics, error)
}

// AppraisalProvider returns the estimated value of a domain, nil if unknown.
type AppraisalProvider interface {
	FetchAppraisal(ctx context.Context, q domain.DomainQuery) (*float64, error)
}

// IndexProvider reports whether a domain is in the search index.
type IndexProvider interface {
	FetchIndexed(ctx context.Context, q domain.DomainQuery) (domain.TriState, error)
}

// RedirectProvider returns one page of domains redirecting to q.
// Page 0 is the implicit first page.
type RedirectProvider interface {
	FetchRedirects(ctx context.Context, q domain.DomainQuery, page int) (domain.RedirectPage, error)
}

// DNSHistoryProvider returns how many times a domain dropped.
type DNSHistoryProvider interface {
	FetchDrops(ctx context.Context, q domain.DomainQuery) (int64, error)
}

// WhoisProvider returns the registration dates of a domain.
type WhoisProvider interface {
	FetchWhois(ctx context.Context, q domain.DomainQuery) (domain.WhoisDates, error)
}

// Providers groups the six data sources the engine queries.
type Providers struct {
	Authority  AuthorityProvider
	Appraisal  AppraisalProvider
	Index      IndexProvider
	Redirects  RedirectProvider
	DNSHistory DNSHistoryProvider
	Whois      WhoisProvider
}
