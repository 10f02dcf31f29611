package web

import (
	"time"

	"domain-metrics/internal/domain"
)

type errorResponse struct {
	Errors []string `json:"errors"`
}

// metricsResponse is the JSON shape of a merged record. Raw values are nil
// when absent; Display carries the formatted text keyed by parameter key.
type metricsResponse struct {
	Domain           string            `json:"domain"`
	FetchedAt        time.Time         `json:"fetched_at"`
	MozDA            *float64          `json:"moz_da"`
	MozPA            *float64          `json:"moz_pa"`
	MajesticTF       *float64          `json:"majestic_tf"`
	MajesticCF       *float64          `json:"majestic_cf"`
	ReferringDomains *int64            `json:"referring_domains"`
	Backlinks        *int64            `json:"backlinks"`
	EstimatedValue   *float64          `json:"estimated_value"`
	Indexed          *bool             `json:"indexed"`
	Drops            int64             `json:"drops"`
	ExpirationDate   *string           `json:"expiration_date"`
	DomainAgeDays    *int              `json:"domain_age_days"`
	Redirects        []string          `json:"redirects"`
	Display          map[string]string `json:"display"`
}

func newMetricsResponse(r *domain.MetricsRecord) metricsResponse {
	resp := metricsResponse{
		Domain:           r.Domain,
		FetchedAt:        r.FetchedAt,
		MozDA:            r.MozDA,
		MozPA:            r.MozPA,
		MajesticTF:       r.MajesticTF,
		MajesticCF:       r.MajesticCF,
		ReferringDomains: r.ReferringDomains,
		Backlinks:        r.Backlinks,
		EstimatedValue:   r.EstimatedValue,
		Drops:            r.Drops,
		DomainAgeDays:    r.DomainAgeDays,
		Redirects:        r.Redirects,
		Display:          make(map[string]string, len(domain.Parameters)),
	}

	switch r.Indexed {
	case domain.Yes:
		v := true
		resp.Indexed = &v
	case domain.No:
		v := false
		resp.Indexed = &v
	}

	if r.ExpirationDate != nil {
		s := r.ExpirationDate.Format("2006-01-02")
		resp.ExpirationDate = &s
	}

	for _, p := range domain.Parameters {
		resp.Display[p.Key] = p.Render(r)
	}
	return resp
}
