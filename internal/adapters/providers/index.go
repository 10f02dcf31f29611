package providers

import (
	"context"

	"domain-metrics/internal/domain"
)

// FetchIndexed reports whether the search index lists q. A missing or
// non-boolean isIndexed is Unknown.
func (c *Client) FetchIndexed(ctx context.Context, q domain.DomainQuery) (domain.TriState, error) {
	ep := c.settings.Current().Index

	doc, err := c.getJSON(ctx, NameIndex, ep.BaseURL+"/"+q.String(), nil)
	if err != nil {
		return domain.Unknown, err
	}
	return domain.TriStateOf(optBool(doc.Get("isIndexed"))), nil
}
