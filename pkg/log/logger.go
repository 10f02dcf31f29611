package log

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the number of entries held before the oldest is dropped.
const DefaultQueueSize = 1024

// Logger is a leveled structured logger. Children created with With share the
// parent's level and dispatcher.
type Logger struct {
	level  *atomic.Int32
	out    *dispatcher
	fields map[string]any
}

// New creates a logger writing entries at or above level to transporters.
func New(level Level, transporters ...Transporter) *Logger {
	lvl := new(atomic.Int32)
	lvl.Store(int32(level))
	return &Logger{
		level:  lvl,
		out:    newDispatcher(DefaultQueueSize, transporters...),
		fields: map[string]any{},
	}
}

// SetLevel changes the minimum level for this logger and all its children.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// With returns a child logger that adds keysAndValues to every entry.
func (l *Logger) With(keysAndValues ...any) *Logger {
	fields := make(map[string]any, len(l.fields)+len(keysAndValues)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	addPairs(fields, keysAndValues)
	return &Logger{level: l.level, out: l.out, fields: fields}
}

// Dropped returns how many entries were discarded because the queue was full.
func (l *Logger) Dropped() int64 {
	return l.out.dropped.Load()
}

// Close flushes pending entries and closes the transporters.
func (l *Logger) Close() {
	l.out.close()
}

func (l *Logger) log(ctx context.Context, level Level, msg string, keysAndValues []any) {
	if !l.Level().Enabled(level) {
		return
	}

	e := newEntry(level, msg)
	e.Caller = caller(3)
	for k, v := range l.fields {
		e.Fields[k] = v
	}
	if ctx != nil {
		e.RequestID = RequestIDFromContext(ctx)
		e.QueryDomain = QueryDomainFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			e.Fields[k] = v
		}
	}
	addPairs(e.Fields, keysAndValues)

	l.out.send(e)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

func (l *Logger) Debug(msg string, keysAndValues ...any) { l.log(nil, Debug, msg, keysAndValues) }
func (l *Logger) Info(msg string, keysAndValues ...any)  { l.log(nil, Info, msg, keysAndValues) }
func (l *Logger) Warn(msg string, keysAndValues ...any)  { l.log(nil, Warn, msg, keysAndValues) }
func (l *Logger) Error(msg string, keysAndValues ...any) { l.log(nil, Error, msg, keysAndValues) }

// Fatal logs at Fatal level. Exiting is left to the caller.
func (l *Logger) Fatal(msg string, keysAndValues ...any) { l.log(nil, Fatal, msg, keysAndValues) }

func (l *Logger) DebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, Debug, msg, keysAndValues)
}

func (l *Logger) InfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, Info, msg, keysAndValues)
}

func (l *Logger) WarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, Warn, msg, keysAndValues)
}

func (l *Logger) ErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, Error, msg, keysAndValues)
}

// --- package-level logger ---

var (
	globalMu     sync.RWMutex
	globalLogger *Logger

	discardOnce sync.Once
	discard     *Logger
)

// SetDefault installs l as the logger behind the Global* functions.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the installed logger, or a logger that writes nothing.
func Default() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	discardOnce.Do(func() {
		discard = New(off)
	})
	return discard
}

// The Global* helpers call log directly so Caller still points at the call site.

func GlobalDebug(msg string, keysAndValues ...any) { Default().log(nil, Debug, msg, keysAndValues) }
func GlobalInfo(msg string, keysAndValues ...any)  { Default().log(nil, Info, msg, keysAndValues) }
func GlobalWarn(msg string, keysAndValues ...any)  { Default().log(nil, Warn, msg, keysAndValues) }
func GlobalError(msg string, keysAndValues ...any) { Default().log(nil, Error, msg, keysAndValues) }
func GlobalFatal(msg string, keysAndValues ...any) { Default().log(nil, Fatal, msg, keysAndValues) }

func GlobalDebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().log(ctx, Debug, msg, keysAndValues)
}

func GlobalInfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().log(ctx, Info, msg, keysAndValues)
}

func GlobalWarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().log(ctx, Warn, msg, keysAndValues)
}

func GlobalErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().log(ctx, Error, msg, keysAndValues)
}
