package partials

import (
	"domain-metrics/internal/domain"
	"domain-metrics/internal/usecases"
)

// ResultsView is the results partial: an optional notice plus the engine
// snapshot.
type ResultsView struct {
	Snapshot usecases.Snapshot
	Notice   string
}

func suffixOf(name string) string {
	q, err := domain.NewDomainQuery(name)
	if err != nil {
		return ""
	}
	suffix, _ := q.PublicSuffix()
	return suffix
}
