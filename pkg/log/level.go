package log

import (
	"errors"
	"strings"
)

// Level is the severity of an entry.
type Level int8

const (
	Debug Level = iota
	Info
	Warn
	Error
	Fatal
)

// off is above every real level; loggers at this level write nothing.
const off = Fatal + 1

var levelNames = map[Level]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	Fatal: "FATAL",
}

// ErrInvalidLevel is returned when parsing an unknown level string.
var ErrInvalidLevel = errors.New("invalid log level")

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel accepts level names case-insensitively. Unknown names yield Info
// together with ErrInvalidLevel so callers can fall back and still warn.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return Warn, nil
	}
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return Info, ErrInvalidLevel
}

// Enabled reports whether an entry at target passes a logger set to l.
func (l Level) Enabled(target Level) bool {
	return target >= l
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so levels can be read
// straight from YAML or env values.
func (l *Level) UnmarshalText(text []byte) error {
	lvl, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}
