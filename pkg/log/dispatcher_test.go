package log

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

// captureTransporter records every entry it receives.
type captureTransporter struct {
	mu       sync.Mutex
	entries  []Entry
	writeErr error
	closed   bool
}

func (c *captureTransporter) Name() string { return "capture" }

func (c *captureTransporter) Write(e Entry) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()
	return nil
}

func (c *captureTransporter) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *captureTransporter) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry{}, c.entries...)
}

// gateTransporter blocks the first Write until released.
type gateTransporter struct {
	captureTransporter
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateTransporter() *gateTransporter {
	return &gateTransporter{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gateTransporter) Write(e Entry) error {
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	return g.captureTransporter.Write(e)
}

func TestDispatcher_Close_DeliversQueuedEntries(t *testing.T) {
	capture := &captureTransporter{}
	d := newDispatcher(16, capture)

	for i := 0; i < 10; i++ {
		d.send(newEntry(Info, "m"))
	}
	d.close()

	if got := len(capture.Entries()); got != 10 {
		t.Errorf("delivered = %d, want 10", got)
	}
	if !capture.closed {
		t.Error("transporter should be closed")
	}
}

func TestDispatcher_FullQueue_DropsOldest(t *testing.T) {
	// Arrange
	gate := newGateTransporter()
	d := newDispatcher(2, gate)
	d.send(newEntry(Info, "first"))
	<-gate.started

	// Act
	d.send(newEntry(Info, "a"))
	d.send(newEntry(Info, "b"))
	d.send(newEntry(Info, "c"))
	close(gate.release)
	d.close()

	// Assert
	if got := d.dropped.Load(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
	var msgs []string
	for _, e := range gate.Entries() {
		msgs = append(msgs, e.Message)
	}
	if strings.Join(msgs, ",") != "first,b,c" {
		t.Errorf("delivered = %v, want [first b c]", msgs)
	}
}

func TestDispatcher_SendAfterClose_Ignored(t *testing.T) {
	capture := &captureTransporter{}
	d := newDispatcher(4, capture)
	d.close()
	d.close()

	d.send(newEntry(Info, "late"))

	if len(capture.Entries()) != 0 {
		t.Error("entries sent after close must be ignored")
	}
}

func TestDispatcher_WriteError_FallsBack(t *testing.T) {
	var stderr bytes.Buffer
	failing := &captureTransporter{writeErr: errors.New("disk full")}
	healthy := &captureTransporter{}
	d := newDispatcher(4, failing, healthy)
	d.fallback = &stderr

	d.send(newEntry(Error, "boom"))
	d.close()

	if !strings.Contains(stderr.String(), "disk full") {
		t.Errorf("fallback output = %q, want the write error", stderr.String())
	}
	if len(healthy.Entries()) != 1 {
		t.Error("a failing transporter must not block the others")
	}
}
