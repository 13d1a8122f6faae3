package sim

import (
	"sync"
	"time"

	"github.com/Pricstas/autonomi/internal/lookup"
	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
)

type heldCopy struct {
	holder peer.ID
	value  []byte
}

// Network simulates a neighborhood of holder peers behind the lookup
// client contract. Copies seeded for a key are replayed in seeding
// order, one progress event each, followed by a finished signal or a
// scripted failure.
type Network struct {
	mu       sync.Mutex
	events   chan lookup.Event
	holders  []peer.ID
	copies   map[string][]heldCopy
	failures map[string]lookup.FailureKind
	stopped  map[lookup.QueryID]bool
	closed   bool
	quit     chan struct{}
	latency  time.Duration
	wg       sync.WaitGroup
}

// NewNetwork creates a simulated network. latency is the delay before
// each progress event; zero replays synchronously fast.
func NewNetwork(latency time.Duration) *Network {
	return &Network{
		events:   make(chan lookup.Event, 64),
		copies:   make(map[string][]heldCopy),
		failures: make(map[string]lookup.FailureKind),
		stopped:  make(map[lookup.QueryID]bool),
		quit:     make(chan struct{}),
		latency:  latency,
	}
}

// AddHolder registers a simulated holder peer.
func (n *Network) AddHolder(id peer.ID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.holders = append(n.holders, id)
}

// Holders returns the registered holder peers.
func (n *Network) Holders() []peer.ID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]peer.ID(nil), n.holders...)
}

// Seed makes holder serve a copy of rec for its key.
func (n *Network) Seed(holder peer.ID, rec record.Record) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := string(rec.Key)
	n.copies[key] = append(n.copies[key], heldCopy{
		holder: holder,
		value:  append([]byte(nil), rec.Value...),
	})
}

// SeedGroup makes every listed holder serve the same record.
func (n *Network) SeedGroup(holders []peer.ID, rec record.Record) {
	for _, h := range holders {
		n.Seed(h, rec)
	}
}

// Fail scripts a terminal failure for a key, emitted after any seeded
// copies are replayed.
func (n *Network) Fail(key record.Key, kind lookup.FailureKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures[string(key)] = kind
}

// StartGetRecord begins replaying the scripted responses for key.
func (n *Network) StartGetRecord(id lookup.QueryID, key record.Key) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	copies := append([]heldCopy(nil), n.copies[string(key)]...)
	failure, failed := n.failures[string(key)]
	n.wg.Add(1)
	n.mu.Unlock()

	go func() {
		defer n.wg.Done()

		if len(copies) == 0 && !failed {
			n.emit(id, lookup.Failed{
				ID:   id,
				Kind: lookup.FailureNotFound,
				Step: lookup.ProgressStep{Count: 1, Last: true},
			})
			return
		}

		for i, c := range copies {
			if n.latency > 0 {
				time.Sleep(n.latency)
			}
			if n.isStopped(id) {
				return
			}
			n.emit(id, lookup.FoundRecord{
				ID:     id,
				Record: record.Record{Key: key, Value: c.value},
				Holder: peer.From(c.holder),
				Stats:  lookup.Stats{Requests: i + 1, Successes: i + 1},
				Step:   lookup.ProgressStep{Count: i + 1},
			})
		}

		if n.isStopped(id) {
			return
		}
		step := lookup.ProgressStep{Count: len(copies) + 1, Last: true}
		if failed {
			n.emit(id, lookup.Failed{ID: id, Kind: failure, Step: step})
			return
		}
		n.emit(id, lookup.Finished{ID: id, Step: step})
	}()
}

// StopQuery suppresses any responses not yet replayed. Idempotent; safe
// for unknown queries.
func (n *Network) StopQuery(id lookup.QueryID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped[id] = true
}

// Events returns the progress event stream.
func (n *Network) Events() <-chan lookup.Event {
	return n.events
}

// Close waits for in-flight replays and closes the event stream.
func (n *Network) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.quit)
	n.mu.Unlock()

	n.wg.Wait()
	close(n.events)
}

func (n *Network) isStopped(id lookup.QueryID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopped[id] || n.closed
}

func (n *Network) emit(id lookup.QueryID, ev lookup.Event) {
	if n.isStopped(id) {
		return
	}
	// A replay blocked on a full buffer must still observe Close, or
	// its Wait would never return.
	select {
	case n.events <- ev:
	case <-n.quit:
	}
}
