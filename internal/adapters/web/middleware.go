package web

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"domain-metrics/internal/adapters/session"
	"domain-metrics/internal/usecases"
	"domain-metrics/pkg/log"
)

// QuotaTracker counts domain checks per IP inside a sliding window. The count
// is shown to visitors; it never rejects a request.
type QuotaTracker struct {
	mu     sync.Mutex
	checks map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewQuotaTracker creates a tracker that reports usage against limit per window.
func NewQuotaTracker(limit int, window time.Duration) *QuotaTracker {
	return &QuotaTracker{
		checks: make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Record notes one domain check for ip.
func (q *QuotaTracker) Record(ip string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.checks[ip] = append(q.recentLocked(ip), q.now())
}

// Used returns how many checks ip made inside the window.
func (q *QuotaTracker) Used(ip string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.recentLocked(ip))
}

func (q *QuotaTracker) Limit() int            { return q.limit }
func (q *QuotaTracker) Window() time.Duration { return q.window }

func (q *QuotaTracker) recentLocked(ip string) []time.Time {
	cutoff := q.now().Add(-q.window)
	stamps := q.checks[ip]
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}

// prune drops IPs with no check inside the window.
func (q *QuotaTracker) prune() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for ip := range q.checks {
		if recent := q.recentLocked(ip); len(recent) == 0 {
			delete(q.checks, ip)
		} else {
			q.checks[ip] = recent
		}
	}
}

// Run prunes stale entries every interval until ctx is done.
func (q *QuotaTracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.prune()
		}
	}
}

// RequestIDConfig returns the configuration for Fiber's requestid middleware.
// Uses X-Request-ID header, generates a UUID if not present.
func RequestIDConfig() requestid.Config {
	return requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: "requestid",
	}
}

// RequestIDToContextMiddleware bridges Fiber's requestid to pkg/log context.
// Must be used AFTER requestid.New().
func RequestIDToContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			c.SetUserContext(log.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// RequestLoggerMiddleware logs one structured line per request, at a level
// chosen from the status code.
func RequestLoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		}
		if err != nil {
			fields = append(fields, "error", err.Error())
		}

		ctx := c.UserContext()
		switch {
		case status >= 500:
			log.GlobalErrorCtx(ctx, "request completed", fields...)
		case status >= 400:
			log.GlobalWarnCtx(ctx, "request completed", fields...)
		default:
			log.GlobalInfoCtx(ctx, "request completed", fields...)
		}
		return err
	}
}

// SessionCookie is the cookie that carries the visitor id.
const SessionCookie = "dm_session"

const engineLocal = "engine"

// SessionMiddleware attaches the visitor's engine to the request, issuing a
// new session cookie when needed.
func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current := c.Cookies(SessionCookie)
		id, engine := store.Acquire(current)
		if id != current {
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(store.TTL().Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(engineLocal, engine)
		return c.Next()
	}
}

func engineOf(c *fiber.Ctx) *usecases.Engine {
	engine, _ := c.Locals(engineLocal).(*usecases.Engine)
	return engine
}
