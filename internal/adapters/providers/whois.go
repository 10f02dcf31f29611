package providers

import (
	"context"
	"net/http"
	"net/url"

	"domain-metrics/internal/domain"
)

// FetchWhois returns the raw creation and expiration dates. The API key goes
// in the apikey header and redirects are followed.
func (c *Client) FetchWhois(ctx context.Context, q domain.DomainQuery) (domain.WhoisDates, error) {
	ep := c.settings.Current().Whois

	params := url.Values{}
	params.Set("domain", q.String())
	header := http.Header{}
	header.Set("apikey", ep.APIKey)

	doc, err := c.getJSON(ctx, NameWhois, ep.BaseURL+"?"+params.Encode(), header)
	if err != nil {
		return domain.WhoisDates{}, err
	}

	return domain.WhoisDates{
		CreationDate:   optString(doc.Get("result.creation_date")),
		ExpirationDate: optString(doc.Get("result.expiration_date")),
	}, nil
}
