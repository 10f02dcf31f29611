package providers

import (
	"context"
	"net/url"

	"domain-metrics/internal/domain"
)

// FetchAuthority queries the DomDetailer-style endpoint for Moz and Majestic
// figures. Every key is optional and may arrive as a number or a string.
func (c *Client) FetchAuthority(ctx context.Context, q domain.DomainQuery) (domain.AuthorityMetrics, error) {
	ep := c.settings.Current().Authority

	params := url.Values{}
	params.Set("domain", q.String())
	params.Set("app", ep.App)
	params.Set("apikey", ep.APIKey)
	params.Set("majesticChoice", "root")

	doc, err := c.getJSON(ctx, NameAuthority, ep.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.AuthorityMetrics{}, err
	}

	return domain.AuthorityMetrics{
		MozDA:            optFloat(doc.Get("mozDA")),
		MozPA:            optFloat(doc.Get("mozPA")),
		MajesticTF:       optFloat(doc.Get("majesticTF")),
		MajesticCF:       optFloat(doc.Get("majesticCF")),
		ReferringDomains: optCount(doc.Get("majesticRefDomains")),
		Backlinks:        optCount(doc.Get("majesticLinks")),
	}, nil
}
