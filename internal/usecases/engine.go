package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"domain-metrics/internal/domain"
	"domain-metrics/pkg/log"

	"golang.org/x/sync/errgroup"
)

// State is the engine's position in the query lifecycle.
type State int

const (
	Idle State = iota
	Validating
	Fetching
	Paginating
	Merged
	Failed
)

var stateNames = [...]string{"idle", "validating", "fetching", "paginating", "merged", "failed"}

func (s State) String() string {
	if s < Idle || s > Failed {
		return "unknown"
	}
	return stateNames[s]
}

// Snapshot is a read-only view of the engine's current query state.
type Snapshot struct {
	State     State
	Domain    string
	Loading   bool
	Errors    []string
	Record    *domain.MetricsRecord
	Selection domain.FieldSelection
}

// Engine runs the end-to-end aggregation for one consumer: validate, fan out
// to every provider, walk the redirect pages, merge. It owns the consumer's
// query state and writes it only at transition points.
type Engine struct {
	providers Providers
	walker    *RedirectWalker
	now       func() time.Time

	mu          sync.RWMutex
	state       State
	domain      string
	loading     bool
	errors      []string
	record      *domain.MetricsRecord
	selection   domain.FieldSelection
	subscribers map[int]chan Snapshot
	nextSubID   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for derived fields.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an idle engine over providers.
func NewEngine(providers Providers, opts ...Option) *Engine {
	e := &Engine{
		providers:   providers,
		walker:      NewRedirectWalker(providers.Redirects),
		now:         time.Now,
		selection:   domain.NewFieldSelection(),
		subscribers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one query. Invalid input returns domain.ErrInvalidDomain and
// leaves the state untouched. Any provider or pagination failure returns an
// error wrapping domain.ErrFetchFailed and records a single user-facing message.
func (e *Engine) Run(ctx context.Context, raw string) (*domain.MetricsRecord, error) {
	q, err := domain.NewDomainQuery(raw)
	if err != nil {
		log.GlobalDebugCtx(ctx, "domain rejected", "input", raw)
		return nil, err
	}

	ctx = log.WithQueryDomain(ctx, q.String())
	e.begin(q)

	results, err := e.fetchAll(ctx, q)
	if err != nil {
		return nil, e.fail(ctx, err)
	}

	e.transition(Paginating)

	redirects, err := e.walker.Walk(ctx, q, results.firstPage)
	if err != nil {
		return nil, e.fail(ctx, err)
	}

	record := mergeRecord(q, results, redirects, e.now())
	e.succeed(record)

	log.GlobalInfoCtx(ctx, "domain metrics merged", "redirects", len(record.Redirects))
	return record, nil
}

// fetchAll dispatches the six initial calls concurrently. The first failure
// cancels the shared context so the remaining calls abort.
func (e *Engine) fetchAll(ctx context.Context, q domain.DomainQuery) (fetchResults, error) {
	var res fetchResults
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := e.providers.Authority.FetchAuthority(gctx, q)
		res.authority = m
		return err
	})
	g.Go(func() error {
		v, err := e.providers.Appraisal.FetchAppraisal(gctx, q)
		res.appraisal = v
		return err
	})
	g.Go(func() error {
		v, err := e.providers.Index.FetchIndexed(gctx, q)
		res.indexed = v
		return err
	})
	g.Go(func() error {
		p, err := e.providers.Redirects.FetchRedirects(gctx, q, 0)
		res.firstPage = p
		return err
	})
	g.Go(func() error {
		n, err := e.providers.DNSHistory.FetchDrops(gctx, q)
		res.drops = n
		return err
	})
	g.Go(func() error {
		w, err := e.providers.Whois.FetchWhois(gctx, q)
		res.whois = w
		return err
	})

	if err := g.Wait(); err != nil {
		return fetchResults{}, err
	}
	return res, nil
}

// Snapshot returns a copy of the current query state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// SetSelection replaces the field selection. It never triggers a fetch.
func (e *Engine) SetSelection(s domain.FieldSelection) {
	e.mu.Lock()
	e.selection = s.Clone()
	e.mu.Unlock()
}

// Subscribe returns a channel that receives a snapshot after every terminal
// transition. Slow readers only see the latest snapshot. Call the returned
// function to unsubscribe.
func (e *Engine) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = ch
	e.mu.Unlock()

	return ch, func() {
		e.mu.Lock()
		if _, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(ch)
		}
		e.mu.Unlock()
	}
}

func (e *Engine) begin(q domain.DomainQuery) {
	e.mu.Lock()
	e.state = Fetching
	e.domain = q.String()
	e.loading = true
	e.errors = nil
	e.record = nil
	e.mu.Unlock()
}

func (e *Engine) transition(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) succeed(record *domain.MetricsRecord) {
	e.mu.Lock()
	e.state = Merged
	e.loading = false
	e.errors = nil
	e.record = record
	e.publishLocked()
	e.mu.Unlock()
}

func (e *Engine) fail(ctx context.Context, cause error) error {
	log.GlobalErrorCtx(ctx, "domain metrics fetch failed", "error", cause)

	e.mu.Lock()
	e.state = Failed
	e.loading = false
	e.errors = []string{domain.FetchFailedMessage}
	e.record = nil
	e.publishLocked()
	e.mu.Unlock()

	return fmt.Errorf("%w: %w", domain.ErrFetchFailed, cause)
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:     e.state,
		Domain:    e.domain,
		Loading:   e.loading,
		Errors:    append([]string(nil), e.errors...),
		Record:    e.record,
		Selection: e.selection.Clone(),
	}
}

// publishLocked must be called with e.mu held for writing.
func (e *Engine) publishLocked() {
	snap := e.snapshotLocked()
	for _, ch := range e.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
