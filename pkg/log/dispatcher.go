package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// dispatcher hands entries to transporters on a background goroutine so
// logging never blocks a request. When the queue is full the oldest queued
// entry is discarded.
type dispatcher struct {
	queue        chan Entry
	transporters []Transporter
	fallback     io.Writer

	dropped atomic.Int64
	closed  atomic.Bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newDispatcher(capacity int, transporters ...Transporter) *dispatcher {
	if capacity < 1 {
		capacity = 1
	}
	d := &dispatcher{
		queue:        make(chan Entry, capacity),
		transporters: transporters,
		fallback:     os.Stderr,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) send(e Entry) {
	if d.closed.Load() {
		return
	}
	for attempt := 0; attempt < 2; attempt++ {
		select {
		case d.queue <- e:
			return
		default:
		}
		select {
		case <-d.queue:
			d.dropped.Add(1)
		default:
		}
	}
	d.dropped.Add(1)
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case e := <-d.queue:
			d.deliver(e)
		case <-d.stop:
			return
		}
	}
}

func (d *dispatcher) deliver(e Entry) {
	for _, t := range d.transporters {
		if err := t.Write(e); err != nil {
			fmt.Fprintf(d.fallback, "log: transporter %s: %v\n", t.Name(), err)
		}
	}
}

// close drains what is queued, then closes every transporter.
func (d *dispatcher) close() {
	d.once.Do(func() {
		d.closed.Store(true)
		close(d.stop)
		<-d.done
		for {
			select {
			case e := <-d.queue:
				d.deliver(e)
			default:
				for _, t := range d.transporters {
					if err := t.Close(); err != nil {
						fmt.Fprintf(d.fallback, "log: closing %s: %v\n", t.Name(), err)
					}
				}
				return
			}
		}
	})
}
