package log

// Transporter delivers entries to one destination (stdout, a file, a
// collector). Write is only ever called from the dispatcher goroutine.
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}
