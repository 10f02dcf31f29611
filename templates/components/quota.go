package components

import (
	"fmt"
	"time"
)

// Quota is the informational usage shown under the form. It never blocks.
type Quota struct {
	Used   int
	Limit  int
	Window time.Duration
}

func quotaCopy(q Quota) string {
	return fmt.Sprintf("You can check up to %d domains every %d hours", q.Limit, int(q.Window/time.Hour))
}

func usageCopy(q Quota) string {
	return fmt.Sprintf("(%d of %d used)", q.Used, q.Limit)
}
