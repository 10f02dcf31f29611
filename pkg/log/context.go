package log

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	queryDomainKey
	fieldsKey
)

// WithRequestID stores the HTTP request id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithQueryDomain tags every entry logged with ctx with the domain being checked.
func WithQueryDomain(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, queryDomainKey, domain)
}

// QueryDomainFromContext returns the tagged domain or "".
func QueryDomainFromContext(ctx context.Context) string {
	return stringValue(ctx, queryDomainKey)
}

// WithFields returns a context carrying the existing fields plus keysAndValues.
// The parent's map is never mutated.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	parent := FieldsFromContext(ctx)
	fields := make(map[string]any, len(parent)+len(keysAndValues)/2)
	for k, v := range parent {
		fields[k] = v
	}
	addPairs(fields, keysAndValues)
	return context.WithValue(ctx, fieldsKey, fields)
}

// FieldsFromContext returns the fields attached with WithFields, or nil.
func FieldsFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey).(map[string]any)
	return fields
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}
