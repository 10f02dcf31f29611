package usecases

import (
	"context"

	"domain-metrics/internal/domain"
	"domain-metrics/pkg/log"
)

// RedirectPageSize is the fixed page size of the redirect history provider.
const RedirectPageSize = 5

// PageCount returns how many pages hold total items.
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + RedirectPageSize - 1) / RedirectPageSize
}

// RedirectWalker materializes the full redirect list of a domain.
type RedirectWalker struct {
	provider RedirectProvider
}

// NewRedirectWalker creates a walker over provider.
func NewRedirectWalker(provider RedirectProvider) *RedirectWalker {
	return &RedirectWalker{provider: provider}
}

// Walk starts from the already fetched first page and requests the remaining
// pages one after another, in ascending order. Any page failure aborts the
// walk; no partial list is returned.
func (w *RedirectWalker) Walk(ctx context.Context, q domain.DomainQuery, first domain.RedirectPage) ([]string, error) {
	pages := PageCount(first.Total)

	redirects := append([]string{}, first.Domains...)

	for page := 1; page < pages; page++ {
		next, err := w.provider.FetchRedirects(ctx, q, page)
		if err != nil {
			return nil, err
		}
		log.GlobalDebugCtx(ctx, "redirect page fetched", "page", page, "of", pages, "items", len(next.Domains))
		redirects = append(redirects, next.Domains...)
	}

	return redirects, nil
}
