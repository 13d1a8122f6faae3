package getrecord

import (
	"errors"
	"fmt"

	"github.com/Pricstas/autonomi/internal/lookup"
	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
)

// Domain outcomes delivered through the completion channel. They are
// ordinary values describing a legitimate negative result of a
// best-effort fetch; retrying is entirely the caller's decision.
var (
	// ErrRecordNotFound means no copy of the record was located.
	ErrRecordNotFound = errors.New("record not found")

	// ErrQueryTimeout means the lookup timed out before the engine could
	// resolve the query from the evidence collected.
	ErrQueryTimeout = errors.New("get record query timed out")
)

// ErrResultChannelDropped is an engine-internal error: delivery failed
// because the caller already abandoned the receiving side. Logged and
// non-fatal; it must never be conflated with a domain outcome.
var ErrResultChannelDropped = errors.New("result channel dropped by caller")

// Version is one observed flavor of a record's content: the record and
// the distinct responders that served exactly these value bytes.
type Version struct {
	Record  record.Record
	Holders peer.Set
}

// Versions maps content hash to the copies observed under that hash.
type Versions map[record.ContentHash]Version

// SplitRecordError reports that holders disagree about the content under
// one key. It carries every observed version with its full responder set.
type SplitRecordError struct {
	Versions Versions
}

func (e *SplitRecordError) Error() string {
	return fmt.Sprintf("split record: %d divergent versions", len(e.Versions))
}

// NotEnoughCopiesError reports that a single version exists but the
// responders were exhausted before the quorum threshold was met.
type NotEnoughCopiesError struct {
	Record   record.Record
	Received int
	Required int
}

func (e *NotEnoughCopiesError) Error() string {
	return fmt.Sprintf("record %s has not enough copies: received %d, required %d",
		e.Record.Key, e.Received, e.Required)
}

// AlreadyRegisteredError is a protocol-sequencing error: a caller
// registered a query identifier that is still pending.
type AlreadyRegisteredError struct {
	ID lookup.QueryID
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("query %s is already registered", e.ID)
}

// Result is the terminal answer of one fetch: a record on success, or
// one of the domain outcomes above.
type Result struct {
	Record record.Record
	Err    error
}

// outcomeLabel maps a result to its metrics label.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, ErrQueryTimeout):
		return "timeout"
	default:
		var split *SplitRecordError
		if errors.As(err, &split) {
			return "split_record"
		}
		var scarce *NotEnoughCopiesError
		if errors.As(err, &scarce) {
			return "not_enough_copies"
		}
		return "error"
	}
}
