// Package eventlog is the processing-event stream feeding the monitor:
// many producers, one consumer, unbounded FIFO.
package eventlog

import (
	"fmt"
	"sync"
	"time"
)

// Event is a single write-once log line.
type Event struct {
	Timestamp time.Time
	Text      string
}

// Log is an unbounded FIFO queue of events. Append never blocks; Next
// blocks the single consumer until an event arrives or the log is closed.
type Log struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
}

func New() *Log {
	l := &Log{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Append enqueues an event timestamped now. Safe for concurrent producers.
func (l *Log) Append(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.queue = append(l.queue, Event{Timestamp: time.Now(), Text: text})
	l.cond.Signal()
}

func (l *Log) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Next returns the oldest event, blocking until one is available. It
// returns false once the log is closed and fully drained.
func (l *Log) Next() (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.queue) == 0 && !l.closed {
		l.cond.Wait()
	}
	if len(l.queue) == 0 {
		return Event{}, false
	}
	ev := l.queue[0]
	l.queue = l.queue[1:]
	return ev, true
}

// TryNext is the polling variant of Next.
func (l *Log) TryNext() (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return Event{}, false
	}
	ev := l.queue[0]
	l.queue = l.queue[1:]
	return ev, true
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Close stops accepting events and wakes the consumer. Queued events can
// still be drained.
func (l *Log) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.cond.Broadcast()
}
