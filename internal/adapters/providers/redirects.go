package providers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"domain-metrics/internal/domain"
)

// FetchRedirects returns one page of domains redirecting to q. Page 0 is sent
// without a page parameter. A missing domains array yields an empty page.
func (c *Client) FetchRedirects(ctx context.Context, q domain.DomainQuery, page int) (domain.RedirectPage, error) {
	ep := c.settings.Current().Redirects

	params := url.Values{}
	params.Set("token", ep.APIKey)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	doc, err := c.getJSON(ctx, NameRedirects, ep.BaseURL+"/"+q.String()+"?"+params.Encode(), nil)
	if err != nil {
		return domain.RedirectPage{}, err
	}

	result := domain.RedirectPage{Domains: []string{}}
	if total := optCount(doc.Get("total")); total != nil {
		result.Total = int(*total)
	}
	doc.Get("domains").ForEach(func(_, v gjson.Result) bool {
		if s := optString(v); s != "" {
			result.Domains = append(result.Domains, s)
		}
		return true
	})
	return result, nil
}
