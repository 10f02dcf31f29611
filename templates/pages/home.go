package pages

import (
	"domain-metrics/internal/usecases"
	"domain-metrics/templates/components"
)

// HomeView is everything the landing page shows.
type HomeView struct {
	Input    string
	Snapshot usecases.Snapshot
	Quota    components.Quota
}
