package web

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"domain-metrics/internal/adapters/session"
	"domain-metrics/internal/domain"
	"domain-metrics/internal/usecases"
	"domain-metrics/pkg/log"
	"domain-metrics/templates/components"
	"domain-metrics/templates/pages"
	"domain-metrics/templates/partials"
)

// Handlers contains the HTTP handlers for the web application.
type Handlers struct {
	sessions  *session.Store
	quota     *QuotaTracker
	newEngine session.EngineFactory
	timeout   time.Duration
	inflight  *submissions
}

type submission struct {
	engine *usecases.Engine
	domain string
}

// submissions tracks the queries each visitor has in flight so a repeated
// submission of the same domain can be turned away.
type submissions struct {
	mu      sync.Mutex
	running map[submission]struct{}
}

// begin reports false when the submission is already running.
func (s *submissions) begin(key submission) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[key]; ok {
		return false
	}
	s.running[key] = struct{}{}
	return true
}

func (s *submissions) end(key submission) {
	s.mu.Lock()
	delete(s.running, key)
	s.mu.Unlock()
}

// NewHandlers creates a new Handlers instance. newEngine builds the
// throwaway engines used by the JSON API.
func NewHandlers(sessions *session.Store, quota *QuotaTracker, newEngine session.EngineFactory, timeout time.Duration) *Handlers {
	return &Handlers{
		sessions:  sessions,
		quota:     quota,
		newEngine: newEngine,
		timeout:   timeout,
		inflight:  &submissions{running: make(map[submission]struct{})},
	}
}

// render is a helper to render templ components. The status must go through
// templ since the adaptor overwrites anything set on c.
func render(c *fiber.Ctx, component templ.Component, status int) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return adaptor.HTTPHandler(templ.Handler(component, templ.WithStatus(status)))(c)
}

// Home renders the landing page with the visitor's current state.
func (h *Handlers) Home(c *fiber.Ctx) error {
	snap := engineOf(c).Snapshot()
	return render(c, pages.Home(pages.HomeView{
		Input:    snap.Domain,
		Snapshot: snap,
		Quota:    h.quotaFor(c),
	}), fiber.StatusOK)
}

// Analyze runs a query for the submitted domain and renders the results
// partial. Invalid input is a silent no-op: the previous results render
// unchanged.
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	engine := engineOf(c)
	raw := c.FormValue("domain")
	engine.SetSelection(selectionFrom(c))

	if !domain.ValidateDomain(raw) {
		log.GlobalDebugCtx(c.UserContext(), "domain rejected", "input", raw)
		return h.renderResults(c, engine, "", fiber.StatusOK)
	}

	key := submission{engine: engine, domain: strings.ToLower(raw)}
	if !h.inflight.begin(key) {
		log.GlobalWarnCtx(c.UserContext(), "duplicate submission rejected", "domain", key.domain)
		return h.renderResults(c, engine, friendlyError(domain.ErrSubmissionInFlight), fiber.StatusConflict)
	}
	defer h.inflight.end(key)

	h.quota.Record(c.IP())

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	if _, err := engine.Run(ctx, raw); err != nil && !errors.Is(err, domain.ErrFetchFailed) {
		log.GlobalErrorCtx(ctx, "analyze failed", "domain", raw, "error", err)
		return h.renderResults(c, engine, friendlyError(err), fiber.StatusOK)
	}

	return h.renderResults(c, engine, "", fiber.StatusOK)
}

// Selection updates which fields are displayed. It never fetches.
func (h *Handlers) Selection(c *fiber.Ctx) error {
	engine := engineOf(c)
	engine.SetSelection(selectionFrom(c))
	return h.renderResults(c, engine, "", fiber.StatusOK)
}

// Results renders the visitor's results partial. While a query is loading it
// waits for it to finish, at most for the fetch timeout.
func (h *Handlers) Results(c *fiber.Ctx) error {
	engine := engineOf(c)
	updates, unsubscribe := engine.Subscribe()
	defer unsubscribe()

	if engine.Snapshot().Loading {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
		defer cancel()

		select {
		case <-updates:
		case <-ctx.Done():
		}
	}
	return h.renderResults(c, engine, "", fiber.StatusOK)
}

// APIGetMetrics runs a fresh query and returns the record as JSON.
func (h *Handlers) APIGetMetrics(c *fiber.Ctx) error {
	raw := c.Params("domain")
	if !domain.ValidateDomain(raw) {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Errors: []string{friendlyError(domain.ErrInvalidDomain)}})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	h.quota.Record(c.IP())
	record, err := h.newEngine().Run(ctx, raw)
	switch {
	case errors.Is(err, domain.ErrFetchFailed):
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Errors: []string{domain.FetchFailedMessage}})
	case err != nil:
		log.GlobalErrorCtx(ctx, "api get metrics failed", "domain", raw, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Errors: []string{friendlyError(err)}})
	}

	return c.JSON(newMetricsResponse(record))
}

// Healthz reports liveness along with the live session count and how many
// log entries were dropped under load.
func (h *Handlers) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"sessions":    h.sessions.Len(),
		"log_dropped": log.Default().Dropped(),
	})
}

func (h *Handlers) renderResults(c *fiber.Ctx, engine *usecases.Engine, notice string, status int) error {
	return render(c, partials.Results(partials.ResultsView{
		Snapshot: engine.Snapshot(),
		Notice:   notice,
	}), status)
}

func (h *Handlers) quotaFor(c *fiber.Ctx) components.Quota {
	return components.Quota{
		Used:   h.quota.Used(c.IP()),
		Limit:  h.quota.Limit(),
		Window: h.quota.Window(),
	}
}

// selectionFrom reads every "params" form value.
func selectionFrom(c *fiber.Ctx) domain.FieldSelection {
	var keys []string
	for _, v := range c.Request().PostArgs().PeekMulti("params") {
		keys = append(keys, string(v))
	}
	return domain.NewFieldSelection(keys...)
}

// friendlyError returns a neutral, non-blaming error message.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDomain):
		return "That doesn't look like a domain. Try something like example.com"
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return "This domain is already being checked. Results will appear shortly."
	case errors.Is(err, domain.ErrFetchFailed):
		return domain.FetchFailedMessage
	default:
		return "Unable to check this domain right now. Please try again in a moment."
	}
}
