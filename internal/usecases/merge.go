package usecases

import (
	"time"

	"domain-metrics/internal/domain"
)

// fetchResults holds the outcome of the initial concurrent join.
type fetchResults struct {
	authority domain.AuthorityMetrics
	appraisal *float64
	indexed   domain.TriState
	firstPage domain.RedirectPage
	drops     int64
	whois     domain.WhoisDates
}

// mergeRecord combines every provider's contribution into one record.
// Derived fields (expiration, age) are computed against now.
func mergeRecord(q domain.DomainQuery, res fetchResults, redirects []string, now time.Time) *domain.MetricsRecord {
	record := &domain.MetricsRecord{
		Domain:    q.String(),
		FetchedAt: now,

		MozDA:            res.authority.MozDA,
		MozPA:            res.authority.MozPA,
		MajesticTF:       res.authority.MajesticTF,
		MajesticCF:       res.authority.MajesticCF,
		ReferringDomains: res.authority.ReferringDomains,
		Backlinks:        res.authority.Backlinks,

		EstimatedValue: res.appraisal,
		Indexed:        res.indexed,
		Drops:          res.drops,
		Redirects:      redirects,
	}

	if record.Redirects == nil {
		record.Redirects = []string{}
	}

	if expires, ok := domain.ParseDate(res.whois.ExpirationDate); ok {
		record.ExpirationDate = &expires
	}

	if created, ok := domain.ParseDate(res.whois.CreationDate); ok {
		age := domain.DomainAgeDays(created, now)
		record.DomainAgeDays = &age
	}

	return record
}
