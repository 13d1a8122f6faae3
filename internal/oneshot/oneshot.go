package oneshot

import (
	"errors"
	"sync"
)

var (
	// ErrAlreadySent is returned on a second fulfillment attempt. A second
	// fulfillment is a logic error in the sender.
	ErrAlreadySent = errors.New("oneshot: result already sent")

	// ErrReceiverClosed is returned when the receiving side abandoned the
	// channel before the result was sent.
	ErrReceiverClosed = errors.New("oneshot: receiver closed")
)

type state[T any] struct {
	mu     sync.Mutex
	ch     chan T
	sent   bool
	closed bool
}

// Sender is the fulfilling side of a oneshot channel.
type Sender[T any] struct {
	st *state[T]
}

// Receiver is the consuming side of a oneshot channel.
type Receiver[T any] struct {
	st *state[T]
}

// New creates a connected sender/receiver pair.
func New[T any]() (*Sender[T], *Receiver[T]) {
	st := &state[T]{ch: make(chan T, 1)}
	return &Sender[T]{st: st}, &Receiver[T]{st: st}
}

// Send fulfills the channel. It never blocks: the value lands in a
// one-slot buffer for the receiver to pick up.
func (s *Sender[T]) Send(v T) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if s.st.sent {
		return ErrAlreadySent
	}
	if s.st.closed {
		return ErrReceiverClosed
	}
	s.st.sent = true
	s.st.ch <- v
	return nil
}

// Recv returns the channel the result will arrive on.
func (r *Receiver[T]) Recv() <-chan T {
	return r.st.ch
}

// Close abandons the receiving side. Idempotent. A result already sent
// stays available; later sends fail with ErrReceiverClosed.
func (r *Receiver[T]) Close() {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.closed = true
}
