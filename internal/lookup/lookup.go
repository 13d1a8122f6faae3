package lookup

import (
	"time"

	"github.com/google/uuid"

	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
)

// QueryID names one in-flight fetch. IDs are unique among active fetches.
type QueryID uuid.UUID

// NewQueryID returns a fresh query identifier.
func NewQueryID() QueryID {
	return QueryID(uuid.New())
}

func (id QueryID) String() string {
	return uuid.UUID(id).String()
}

// Stats carries the lookup layer's per-query request accounting. The
// engine treats it as diagnostic only.
type Stats struct {
	Requests  int
	Successes int
	Failures  int
	Duration  time.Duration
}

// ProgressStep is the per-event sequence counter emitted by the lookup
// layer. Counts may repeat for responses synthesized from the local node.
type ProgressStep struct {
	Count int
	Last  bool
}

// FailureKind classifies a terminal lookup failure.
type FailureKind uint8

const (
	// FailureNotFound means the lookup exhausted the neighborhood without
	// locating the record.
	FailureNotFound FailureKind = iota
	// FailureQuorumFailed means the lookup layer's own quorum accounting
	// gave up on the query.
	FailureQuorumFailed
	// FailureTimeout means the lookup ran out of time; partial evidence
	// may still resolve the query.
	FailureTimeout
)

func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not-found"
	case FailureQuorumFailed:
		return "quorum-failed"
	case FailureTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Event is one progress signal from the lookup layer. The concrete types
// are FoundRecord, Finished and Failed.
type Event interface {
	Query() QueryID
	event()
}

// FoundRecord reports one record copy received from a holder.
type FoundRecord struct {
	ID     QueryID
	Record record.Record
	Holder peer.Responder
	Stats  Stats
	Step   ProgressStep
}

// Finished reports that the lookup exhausted all reachable holders
// without the engine stopping it first. CacheCandidates are peers that
// should hold the record but did not respond.
type Finished struct {
	ID              QueryID
	CacheCandidates []peer.ID
	Stats           Stats
	Step            ProgressStep
}

// Failed reports a terminal lookup-layer failure.
type Failed struct {
	ID    QueryID
	Kind  FailureKind
	Stats Stats
	Step  ProgressStep
}

func (e FoundRecord) Query() QueryID { return e.ID }
func (e Finished) Query() QueryID    { return e.ID }
func (e Failed) Query() QueryID      { return e.ID }

func (FoundRecord) event() {}
func (Finished) event()    {}
func (Failed) event()      {}

// Stopper asks the lookup layer to finish a query early. Best-effort and
// idempotent: stopping an unknown or already-finished query is a no-op.
type Stopper interface {
	StopQuery(id QueryID)
}

// Client is the lookup collaborator a node drives. StartGetRecord never
// fails synchronously; problems surface as Failed events.
type Client interface {
	Stopper

	// StartGetRecord begins collecting copies of the record at key.
	StartGetRecord(id QueryID, key record.Key)

	// Events returns the stream of progress events for all queries.
	Events() <-chan Event
}
