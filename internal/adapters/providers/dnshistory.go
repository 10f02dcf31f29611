package providers

import (
	"context"
	"net/url"

	"domain-metrics/internal/domain"
)

// FetchDrops returns how many times the domain dropped. Absent means zero.
func (c *Client) FetchDrops(ctx context.Context, q domain.DomainQuery) (int64, error) {
	s := c.settings.Current()
	ep := s.DNSHistory

	params := url.Values{}
	params.Set("key", ep.APIKey)

	doc, err := c.getJSON(ctx, NameDNSHistory, s.Relayed(ep)+ep.BaseURL+"/"+q.String()+"?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}
	if drops := optCount(doc.Get("drops")); drops != nil {
		return *drops, nil
	}
	return 0, nil
}
