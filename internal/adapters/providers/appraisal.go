package providers

import (
	"context"

	"domain-metrics/internal/domain"
)

// FetchAppraisal returns the estimated sale value, nil when govalue is missing.
func (c *Client) FetchAppraisal(ctx context.Context, q domain.DomainQuery) (*float64, error) {
	s := c.settings.Current()
	ep := s.Appraisal

	doc, err := c.getJSON(ctx, NameAppraisal, s.Relayed(ep)+ep.BaseURL+"/"+q.String(), nil)
	if err != nil {
		return nil, err
	}
	return optFloat(doc.Get("govalue")), nil
}
