package session

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	recorderQueueSize = 64
	recorderOpTimeout = 10 * time.Second
)

// recorder issues storage writes asynchronously but in submission order: one
// worker goroutine drains a FIFO queue. Answer checks never wait on the
// network, and two upserts for the same question can no longer reorder.
// Failures are logged and never surfaced to the practicing user.
type recorder struct {
	ops  chan func(ctx context.Context) error
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func newRecorder() *recorder {
	r := &recorder{
		ops:  make(chan func(ctx context.Context) error, recorderQueueSize),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *recorder) run() {
	defer close(r.done)
	for op := range r.ops {
		ctx, cancel := context.WithTimeout(context.Background(), recorderOpTimeout)
		if err := op(ctx); err != nil {
			log.Printf("Error recording session write: %v", err)
		}
		cancel()
	}
}

// enqueue submits a write. When the queue is full the write is dropped with a
// log line rather than blocking the session. A handler may still hold a
// runner whose session was just replaced or ended, so enqueue must also be
// safe after close: writes arriving then are dropped, never sent.
func (r *recorder) enqueue(op func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		log.Printf("Session write queue closed, dropping write")
		return
	}
	select {
	case r.ops <- op:
	default:
		log.Printf("Session write queue full, dropping write")
	}
}

// close drains outstanding writes and stops the worker. Safe to call twice.
func (r *recorder) close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.ops)
	}
	r.mu.Unlock()
	<-r.done
}
