package transporters

import (
	"io"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"domain-metrics/pkg/log"
)

// JSON writes one JSON object per line.
type JSON struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSON writes to os.Stdout.
func NewJSON() *JSON {
	return NewJSONWithWriter(os.Stdout)
}

// NewJSONWithWriter writes to w.
func NewJSONWithWriter(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) Name() string { return "json" }

func (j *JSON) Write(entry log.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.w.Write(data)
	return err
}

func (j *JSON) Close() error { return nil }
