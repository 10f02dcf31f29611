package transporters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"domain-metrics/pkg/log"
)

// Text writes human readable lines for local development:
//
//	15:04:05.000 INFO  engine.go:118 [req-1] example.com domain metrics merged redirects=3
type Text struct {
	mu sync.Mutex
	w  io.Writer
}

// NewText writes to os.Stderr.
func NewText() *Text {
	return NewTextWithWriter(os.Stderr)
}

// NewTextWithWriter writes to w.
func NewTextWithWriter(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) Name() string { return "text" }

func (t *Text) Write(entry log.Entry) error {
	var b strings.Builder
	b.WriteString(entry.Time.Format("15:04:05.000"))
	fmt.Fprintf(&b, " %-5s", entry.Level)
	if entry.Caller != "" {
		b.WriteString(" " + entry.Caller)
	}
	if entry.RequestID != "" {
		b.WriteString(" [" + entry.RequestID + "]")
	}
	if entry.QueryDomain != "" {
		b.WriteString(" " + entry.QueryDomain)
	}
	b.WriteString(" " + entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, formatValue(entry.Fields[k]))
	}
	b.WriteByte('\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Text) Close() error { return nil }

func formatValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
