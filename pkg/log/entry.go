package log

import (
	"time"

	"github.com/goccy/go-json"
)

// Entry is one structured log record.
type Entry struct {
	Time        time.Time
	Level       Level
	Caller      string
	RequestID   string
	QueryDomain string
	Message     string
	Fields      map[string]any
}

func newEntry(level Level, msg string) Entry {
	return Entry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  make(map[string]any),
	}
}

// addPairs copies alternating key/value arguments into fields. Non-string
// keys and a trailing key without value are skipped.
func addPairs(fields map[string]any, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
}

// MarshalJSON flattens Fields into the top-level object. Error values are
// rendered with Error() since they usually marshal to {}.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+6)
	for k, v := range e.Fields {
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		m[k] = v
	}

	m["time"] = e.Time.UTC().Format(time.RFC3339Nano)
	m["level"] = e.Level.String()
	m["msg"] = e.Message
	if e.Caller != "" {
		m["caller"] = e.Caller
	}
	if e.RequestID != "" {
		m["request_id"] = e.RequestID
	}
	if e.QueryDomain != "" {
		m["domain"] = e.QueryDomain
	}

	return json.Marshal(m)
}
