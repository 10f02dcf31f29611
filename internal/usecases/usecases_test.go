package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"domain-metrics/internal/domain"
	"domain-metrics/internal/usecases"
)

var fixedNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64     { return &v }

// MockAuthority is a mock implementation of AuthorityProvider.
type MockAuthority struct {
	metrics domain.AuthorityMetrics
	err     error
}

func (m *MockAuthority) FetchAuthority(ctx context.Context, q domain.DomainQuery) (domain.AuthorityMetrics, error) {
	return m.metrics, m.err
}

// MockAppraisal is a mock implementation of AppraisalProvider.
type MockAppraisal struct {
	value *float64
	err   error
}

func (m *MockAppraisal) FetchAppraisal(ctx context.Context, q domain.DomainQuery) (*float64, error) {
	return m.value, m.err
}

// MockIndex is a mock implementation of IndexProvider.
type MockIndex struct {
	indexed domain.TriState
	err     error
}

func (m *MockIndex) FetchIndexed(ctx context.Context, q domain.DomainQuery) (domain.TriState, error) {
	return m.indexed, m.err
}

// MockRedirects serves pages from a fixed list and records requested pages.
type MockRedirects struct {
	mu      sync.Mutex
	total   int
	pages   map[int][]string
	failOn  map[int]error
	fetched []int
}

func (m *MockRedirects) FetchRedirects(ctx context.Context, q domain.DomainQuery, page int) (domain.RedirectPage, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, page)
	m.mu.Unlock()

	if err := m.failOn[page]; err != nil {
		return domain.RedirectPage{}, err
	}
	return domain.RedirectPage{Total: m.total, Domains: m.pages[page]}, nil
}

func (m *MockRedirects) Fetched() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int{}, m.fetched...)
}

// MockDNSHistory is a mock implementation of DNSHistoryProvider.
type MockDNSHistory struct {
	drops int64
	err   error
}

func (m *MockDNSHistory) FetchDrops(ctx context.Context, q domain.DomainQuery) (int64, error) {
	return m.drops, m.err
}

// MockWhois is a mock implementation of WhoisProvider.
type MockWhois struct {
	dates domain.WhoisDates
	err   error
}

func (m *MockWhois) FetchWhois(ctx context.Context, q domain.DomainQuery) (domain.WhoisDates, error) {
	return m.dates, m.err
}

type mocks struct {
	authority  *MockAuthority
	appraisal  *MockAppraisal
	index      *MockIndex
	redirects  *MockRedirects
	dnsHistory *MockDNSHistory
	whois      *MockWhois
}

func newMocks() *mocks {
	return &mocks{
		authority: &MockAuthority{metrics: domain.AuthorityMetrics{
			MozDA:            floatPtr(93),
			MozPA:            floatPtr(70),
			MajesticTF:       floatPtr(60),
			MajesticCF:       floatPtr(55),
			ReferringDomains: int64Ptr(1500),
			Backlinks:        int64Ptr(250000),
		}},
		appraisal: &MockAppraisal{value: floatPtr(12000)},
		index:     &MockIndex{indexed: domain.Yes},
		redirects: &MockRedirects{
			total: 3,
			pages: map[int][]string{0: {"a.com", "b.com", "c.com"}},
		},
		dnsHistory: &MockDNSHistory{drops: 1},
		whois: &MockWhois{dates: domain.WhoisDates{
			CreationDate:   "2024-11-27T00:00:00Z",
			ExpirationDate: "2030-01-15T00:00:00Z",
		}},
	}
}

func (m *mocks) engine() *usecases.Engine {
	return usecases.NewEngine(usecases.Providers{
		Authority:  m.authority,
		Appraisal:  m.appraisal,
		Index:      m.index,
		Redirects:  m.redirects,
		DNSHistory: m.dnsHistory,
		Whois:      m.whois,
	}, usecases.WithClock(func() time.Time { return fixedNow }))
}

func TestEngine_Run_AllProvidersSucceed_Merged(t *testing.T) {
	// Arrange
	m := newMocks()
	engine := m.engine()

	// Act
	record, err := engine.Run(context.Background(), "Example.com")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Domain != "example.com" {
		t.Errorf("Domain: got %v, want example.com", record.Domain)
	}
	if *record.MozDA != 93 || *record.Backlinks != 250000 {
		t.Errorf("authority fields not copied: %+v", record)
	}
	if *record.EstimatedValue != 12000 {
		t.Errorf("EstimatedValue: got %v, want 12000", *record.EstimatedValue)
	}
	if record.Indexed != domain.Yes {
		t.Errorf("Indexed: got %v, want Yes", record.Indexed)
	}
	if record.Drops != 1 {
		t.Errorf("Drops: got %v, want 1", record.Drops)
	}
	if got := domain.FormatTime(record.ExpirationDate); got != "January 15, 2030" {
		t.Errorf("ExpirationDate: got %v, want January 15, 2030", got)
	}
	if record.DomainAgeDays == nil || *record.DomainAgeDays != 400 {
		t.Errorf("DomainAgeDays: got %v, want 400", record.DomainAgeDays)
	}
	if len(record.Redirects) != 3 {
		t.Errorf("Redirects: got %v, want 3 domains", record.Redirects)
	}

	snap := engine.Snapshot()
	if snap.State != usecases.Merged {
		t.Errorf("State: got %v, want merged", snap.State)
	}
	if snap.Loading {
		t.Error("Loading should be false after merge")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("Errors: got %v, want none", snap.Errors)
	}
	if snap.Record != record {
		t.Error("snapshot should expose the merged record")
	}
}

func TestEngine_Run_SinglePage_NoExtraRequests(t *testing.T) {
	m := newMocks()
	engine := m.engine()

	_, err := engine.Run(context.Background(), "example.com")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched := m.redirects.Fetched(); len(fetched) != 1 || fetched[0] != 0 {
		t.Errorf("fetched pages: got %v, want [0]", fetched)
	}
}

func TestEngine_Run_Paginates_TotalTwelve_ThreeRequests(t *testing.T) {
	// Arrange
	m := newMocks()
	m.redirects.total = 12
	m.redirects.pages = map[int][]string{
		0: {"a.com", "b.com", "c.com", "d.com", "e.com"},
		1: {"f.com", "g.com", "h.com", "i.com", "a.com"},
		2: {"k.com", "l.com"},
	}
	engine := m.engine()

	// Act
	record, err := engine.Run(context.Background(), "example.com")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fetched := m.redirects.Fetched()
	if len(fetched) != 3 {
		t.Errorf("page requests: got %d, want 3", len(fetched))
	}
	want := []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com", "g.com", "h.com", "i.com", "a.com", "k.com", "l.com"}
	if len(record.Redirects) != len(want) {
		t.Fatalf("Redirects: got %v, want %v", record.Redirects, want)
	}
	for i := range want {
		if record.Redirects[i] != want[i] {
			t.Errorf("Redirects[%d]: got %v, want %v", i, record.Redirects[i], want[i])
		}
	}
}

func TestEngine_Run_PageWithoutDomains_ContributesNothing(t *testing.T) {
	m := newMocks()
	m.redirects.total = 8
	m.redirects.pages = map[int][]string{0: {"a.com", "b.com", "c.com", "d.com", "e.com"}}
	engine := m.engine()

	record, err := engine.Run(context.Background(), "example.com")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Redirects) != 5 {
		t.Errorf("Redirects: got %d, want 5", len(record.Redirects))
	}
}

func TestEngine_Run_OneProviderFails_AllOrFail(t *testing.T) {
	testCases := []struct {
		name          string
		breakProvider func(m *mocks, err error)
	}{
		{"authority", func(m *mocks, err error) { m.authority.err = err }},
		{"appraisal", func(m *mocks, err error) { m.appraisal.err = err }},
		{"index", func(m *mocks, err error) { m.index.err = err }},
		{"redirects", func(m *mocks, err error) { m.redirects.failOn = map[int]error{0: err} }},
		{"dns history", func(m *mocks, err error) { m.dnsHistory.err = err }},
		{"whois", func(m *mocks, err error) { m.whois.err = err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			m := newMocks()
			cause := &domain.ProviderError{Provider: tc.name, Err: domain.ErrProviderStatus}
			tc.breakProvider(m, cause)
			engine := m.engine()

			// Act
			record, err := engine.Run(context.Background(), "example.com")

			// Assert
			if record != nil {
				t.Error("record should be nil on failure")
			}
			if !errors.Is(err, domain.ErrFetchFailed) {
				t.Errorf("error: got %v, want ErrFetchFailed", err)
			}
			var pErr *domain.ProviderError
			if !errors.As(err, &pErr) || pErr.Provider != tc.name {
				t.Errorf("cause should be kept for diagnostics, got %v", err)
			}

			snap := engine.Snapshot()
			if snap.State != usecases.Failed {
				t.Errorf("State: got %v, want failed", snap.State)
			}
			if snap.Loading {
				t.Error("Loading should be false after failure")
			}
			if snap.Record != nil {
				t.Error("snapshot record should be nil after failure")
			}
			if len(snap.Errors) != 1 || snap.Errors[0] != domain.FetchFailedMessage {
				t.Errorf("Errors: got %v, want exactly the fetch failed message", snap.Errors)
			}
		})
	}
}

func TestEngine_Run_PaginationFails_ClearsLoading(t *testing.T) {
	// Arrange
	m := newMocks()
	m.redirects.total = 11
	m.redirects.pages = map[int][]string{0: {"a.com"}, 1: {"b.com"}}
	m.redirects.failOn = map[int]error{2: errors.New("page 2 unavailable")}
	engine := m.engine()

	// Act
	_, err := engine.Run(context.Background(), "example.com")

	// Assert
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Errorf("error: got %v, want ErrFetchFailed", err)
	}
	snap := engine.Snapshot()
	if snap.Loading {
		t.Error("Loading should be cleared when the page walk fails")
	}
	if snap.Record != nil {
		t.Error("no partial record should be exposed")
	}
	if len(snap.Errors) != 1 {
		t.Errorf("Errors: got %v, want 1 message", snap.Errors)
	}
}

func TestEngine_Run_InvalidDomain_LeavesStateUntouched(t *testing.T) {
	// Arrange
	m := newMocks()
	engine := m.engine()
	first, err := engine.Run(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	callsBefore := len(m.redirects.Fetched())

	// Act
	_, err = engine.Run(context.Background(), "http://example.com")

	// Assert
	if !errors.Is(err, domain.ErrInvalidDomain) {
		t.Errorf("error: got %v, want ErrInvalidDomain", err)
	}
	if len(m.redirects.Fetched()) != callsBefore {
		t.Error("invalid input must not dispatch any provider call")
	}
	snap := engine.Snapshot()
	if snap.Record != first || snap.State != usecases.Merged {
		t.Error("invalid input must not change the previous result")
	}
}

func TestEngine_Run_NewQueryClearsPreviousErrors(t *testing.T) {
	m := newMocks()
	m.whois.err = errors.New("whois down")
	engine := m.engine()
	_, _ = engine.Run(context.Background(), "example.com")

	m.whois.err = nil
	record, err := engine.Run(context.Background(), "example.com")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := engine.Snapshot()
	if len(snap.Errors) != 0 {
		t.Errorf("Errors: got %v, want cleared", snap.Errors)
	}
	if snap.Record != record {
		t.Error("snapshot should hold the new record")
	}
}

func TestEngine_Run_MissingOptionalFields_NotAvailable(t *testing.T) {
	m := newMocks()
	m.authority.metrics = domain.AuthorityMetrics{}
	m.appraisal.value = nil
	m.index.indexed = domain.Unknown
	m.whois.dates = domain.WhoisDates{}
	m.dnsHistory.drops = 0
	engine := m.engine()

	record, err := engine.Run(context.Background(), "example.com")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range domain.Parameters {
		got := p.Render(record)
		if got == "" {
			t.Errorf("%s rendered empty", p.Label)
		}
	}
	if domain.FormatDomainAge(record.DomainAgeDays) != domain.NotAvailable {
		t.Error("age should be Not Available without a creation date")
	}
	if domain.FormatTime(record.ExpirationDate) != domain.NotAvailable {
		t.Error("expiration should be Not Available without a date")
	}
}

func TestEngine_Run_FailureCancelsSiblingCalls(t *testing.T) {
	// Arrange
	m := newMocks()
	m.authority.err = errors.New("authority down")
	blocking := &blockingAppraisal{}
	engine := usecases.NewEngine(usecases.Providers{
		Authority:  m.authority,
		Appraisal:  blocking,
		Index:      m.index,
		Redirects:  m.redirects,
		DNSHistory: m.dnsHistory,
		Whois:      m.whois,
	})

	// Act
	done := make(chan error, 1)
	go func() {
		_, err := engine.Run(context.Background(), "example.com")
		done <- err
	}()

	// Assert
	select {
	case err := <-done:
		if !errors.Is(err, domain.ErrFetchFailed) {
			t.Errorf("error: got %v, want ErrFetchFailed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run should return once a sibling fails")
	}
}

// blockingAppraisal waits until its context is canceled.
type blockingAppraisal struct{}

func (b *blockingAppraisal) FetchAppraisal(ctx context.Context, q domain.DomainQuery) (*float64, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestEngine_SetSelection_DoesNotFetch(t *testing.T) {
	m := newMocks()
	engine := m.engine()

	engine.SetSelection(domain.NewFieldSelection("da_pa", "drops"))

	if len(m.redirects.Fetched()) != 0 {
		t.Error("changing the selection must not fetch")
	}
	snap := engine.Snapshot()
	if !snap.Selection.Has(domain.ParamAuthority) || !snap.Selection.Has(domain.ParamDrops) {
		t.Errorf("Selection: got %v", snap.Selection)
	}
	if snap.State != usecases.Idle {
		t.Errorf("State: got %v, want idle", snap.State)
	}
}

func TestEngine_Snapshot_IsACopy(t *testing.T) {
	m := newMocks()
	m.whois.err = errors.New("down")
	engine := m.engine()
	_, _ = engine.Run(context.Background(), "example.com")

	snap := engine.Snapshot()
	snap.Errors[0] = "tampered"
	snap.Selection.Toggle(domain.ParamAge)

	again := engine.Snapshot()
	if again.Errors[0] != domain.FetchFailedMessage {
		t.Error("mutating a snapshot must not change engine state")
	}
	if again.Selection.Has(domain.ParamAge) {
		t.Error("mutating a snapshot selection must not change engine state")
	}
}

func TestEngine_Subscribe_ReceivesTerminalSnapshots(t *testing.T) {
	m := newMocks()
	engine := m.engine()
	updates, unsubscribe := engine.Subscribe()
	defer unsubscribe()

	_, err := engine.Run(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case snap := <-updates:
		if snap.State != usecases.Merged || snap.Record == nil {
			t.Errorf("got %+v, want merged snapshot", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestEngine_Unsubscribe_ClosesChannel(t *testing.T) {
	engine := newMocks().engine()
	updates, unsubscribe := engine.Subscribe()

	unsubscribe()
	unsubscribe()

	if _, ok := <-updates; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 0}, {-1, 0}, {1, 1}, {5, 1}, {6, 2}, {12, 3}, {15, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.total), func(t *testing.T) {
			if got := usecases.PageCount(tt.total); got != tt.want {
				t.Errorf("PageCount(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if usecases.Paginating.String() != "paginating" {
		t.Errorf("got %q", usecases.Paginating.String())
	}
	if usecases.State(42).String() != "unknown" {
		t.Errorf("got %q", usecases.State(42).String())
	}
}
