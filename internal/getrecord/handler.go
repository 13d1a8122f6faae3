package getrecord

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Pricstas/autonomi/internal/lookup"
	"github.com/Pricstas/autonomi/internal/oneshot"
	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/quorum"
	"github.com/Pricstas/autonomi/internal/record"
	"github.com/Pricstas/autonomi/internal/stats"
)

// pendingFetch is the registry entry for one in-flight query.
type pendingFetch struct {
	sender          *oneshot.Sender[Result]
	versions        Versions
	policy          quorum.Policy
	expectedHolders peer.Set
	startedAt       time.Time
}

// Handler owns the registry of pending GET-record queries and turns
// lookup progress events into exactly one terminal Result per query.
//
// In production a single event loop is the only caller, so handler
// methods never contend; the mutex keeps the registry safe for tests
// and for callers registering fetches from other goroutines.
type Handler struct {
	mu      sync.Mutex
	pending map[lookup.QueryID]*pendingFetch

	self      peer.ID
	groupSize int
	stopper   lookup.Stopper
	metrics   *stats.FetchMetrics
	log       *slog.Logger
}

// NewHandler builds an engine for a node identified by self. groupSize
// is the close group width; zero or negative selects the default.
// stopper and metrics may be nil.
func NewHandler(self peer.ID, groupSize int, stopper lookup.Stopper, metrics *stats.FetchMetrics, logger *slog.Logger) *Handler {
	if groupSize <= 0 {
		groupSize = quorum.DefaultCloseGroupSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pending:   make(map[lookup.QueryID]*pendingFetch),
		self:      self,
		groupSize: groupSize,
		stopper:   stopper,
		metrics:   metrics,
		log:       logger.With("component", "getrecord"),
	}
}

// Register creates the pending entry for a fetch. The sender is fired
// exactly once over the query's lifetime. expectedHolders is diagnostic
// only and gates the chunk fast path; it never affects quorum counting.
func (h *Handler) Register(id lookup.QueryID, sender *oneshot.Sender[Result], policy quorum.Policy, expectedHolders peer.Set) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.pending[id]; ok {
		return &AlreadyRegisteredError{ID: id}
	}
	if expectedHolders == nil {
		expectedHolders = peer.NewSet()
	}
	h.pending[id] = &pendingFetch{
		sender:          sender,
		versions:        make(Versions),
		policy:          policy,
		expectedHolders: expectedHolders,
		startedAt:       time.Now(),
	}
	h.metrics.QueryStarted()
	return nil
}

// Inflight returns the number of pending queries.
func (h *Handler) Inflight() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// HandleFound accumulates one record copy. A copy for an unknown query
// is a late arrival for an already-resolved fetch and is ignored.
func (h *Handler) HandleFound(id lookup.QueryID, rec record.Record, holder peer.Responder, _ lookup.Stats, step lookup.ProgressStep) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pending[id]
	if !ok {
		h.log.Debug("copy for unknown query, likely resolved already",
			"query", id, "key", rec.Key)
		return
	}

	if h.tryEarlyCompletion(id, p, rec) {
		return
	}

	responder := h.self
	if remote, ok := holder.Remote(); ok {
		responder = remote
	}

	if p.expectedHolders.Len() > 0 {
		if p.expectedHolders.Remove(responder) {
			h.log.Debug("copy received from expected holder",
				"query", id, "key", rec.Key, "holder", responder)
		} else {
			h.log.Debug("copy received from unexpected holder",
				"query", id, "key", rec.Key, "holder", responder)
		}
	}

	hash := record.HashValue(rec.Value)
	v, ok := p.versions[hash]
	if !ok {
		v = Version{Record: rec, Holders: peer.NewSet()}
	}
	v.Holders.Add(responder)
	p.versions[hash] = v
	responded := v.Holders.Len()

	expected := quorum.ExpectedAnswers(p.policy, h.groupSize)
	h.log.Debug("accumulated copy", "query", id, "key", rec.Key,
		"version", hash, "responded", responded, "expected", expected)

	if responded < expected {
		if step.Count >= h.groupSize {
			h.log.Debug("lookup progressed past close group width",
				"query", id, "key", rec.Key,
				"step", step.Count, "versions", len(p.versions))
		}
		return
	}

	if p.expectedHolders.Len() > 0 {
		h.log.Debug("fetch completing with unresponsive expected holders",
			"query", id, "key", rec.Key, "holders", p.expectedHolders.IDs())
	}

	delete(h.pending, id)
	if len(p.versions) == 1 {
		h.deliver(id, p, Result{Record: rec})
	} else {
		// A version at quorum does not override disagreement seen
		// elsewhere for the same key.
		h.deliver(id, p, Result{Err: &SplitRecordError{Versions: p.versions}})
	}
	h.stop(id)
}

// HandleFinished resolves a query whose lookup exhausted all reachable
// holders without reaching quorum.
func (h *Handler) HandleFinished(id lookup.QueryID, cacheCandidates []peer.ID, _ lookup.Stats, step lookup.ProgressStep) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pending[id]
	if !ok {
		h.log.Debug("finished signal for unknown query, likely resolved already",
			"query", id)
		return
	}
	delete(h.pending, id)

	if len(cacheCandidates) > 0 {
		h.log.Debug("peers expected to hold the record but without a copy",
			"query", id, "candidates", len(cacheCandidates))
	}
	if p.expectedHolders.Len() > 0 {
		h.log.Debug("expected holders never responded",
			"query", id, "holders", p.expectedHolders.IDs())
	}

	switch len(p.versions) {
	case 0:
		h.log.Debug("lookup finished without a single copy",
			"query", id, "step", step.Count)
		h.deliver(id, p, Result{Err: ErrRecordNotFound})
	case 1:
		for _, v := range p.versions {
			h.log.Debug("lookup finished below quorum",
				"query", id, "key", v.Record.Key, "received", v.Holders.Len())
			h.deliver(id, p, Result{Err: &NotEnoughCopiesError{
				Record:   v.Record,
				Received: v.Holders.Len(),
				Required: quorum.ExpectedAnswers(p.policy, h.groupSize),
			}})
		}
	default:
		h.log.Debug("lookup finished with divergent versions",
			"query", id, "versions", len(p.versions))
		h.deliver(id, p, Result{Err: &SplitRecordError{Versions: p.versions}})
	}
}

// HandleFailed resolves a query whose lookup reported a terminal
// failure. Timeouts go through the salvage path first.
func (h *Handler) HandleFailed(id lookup.QueryID, kind lookup.FailureKind, _ lookup.Stats, _ lookup.ProgressStep) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pending[id]
	if !ok {
		h.log.Debug("failure signal for unknown query, likely resolved already",
			"query", id, "kind", kind)
		return
	}
	delete(h.pending, id)

	if kind == lookup.FailureTimeout {
		h.salvageTimeout(id, p)
		return
	}

	if p.expectedHolders.Len() > 0 {
		h.log.Debug("fetch failed with unresponsive expected holders",
			"query", id, "kind", kind, "holders", p.expectedHolders.IDs())
	} else {
		h.log.Info("fetch failed", "query", id, "kind", kind)
	}
	h.deliver(id, p, Result{Err: ErrRecordNotFound})
}

// salvageTimeout attempts to resolve a timed-out query from partial
// evidence. Divergent versions are never salvaged; a single version that
// already met its threshold is a complete answer despite the timeout.
func (h *Handler) salvageTimeout(id lookup.QueryID, p *pendingFetch) {
	if len(p.versions) > 1 {
		h.log.Warn("query timed out with divergent versions",
			"query", id, "versions", len(p.versions))
		h.deliver(id, p, Result{Err: ErrQueryTimeout})
		return
	}

	required := quorum.ExpectedAnswers(p.policy, h.groupSize)
	for _, v := range p.versions {
		if v.Holders.Len() >= required {
			h.deliver(id, p, Result{Record: v.Record})
			return
		}
	}

	h.log.Warn("query timed out with insufficient responses",
		"query", id, "missing", p.expectedHolders.IDs())
	h.deliver(id, p, Result{Err: ErrQueryTimeout})
}

// tryEarlyCompletion applies the self-verifying fast path: a chunk fetch
// with quorum one and no expected holders resolves on its first copy. A
// claimed chunk can be trusted here; corrupted chunk content is caught by
// the caller's content verification, not by this engine.
// Caller holds h.mu. Returns true if the event is fully handled.
func (h *Handler) tryEarlyCompletion(id lookup.QueryID, p *pendingFetch, rec record.Record) bool {
	if p.expectedHolders.Len() > 0 {
		return false
	}
	if p.policy != quorum.One() {
		return false
	}
	if !record.IsSelfVerifying(rec) {
		return false
	}

	delete(h.pending, id)
	h.stop(id)
	h.metrics.EarlyExit()
	h.log.Debug("chunk fetch completed early on first copy",
		"query", id, "key", rec.Key)
	h.deliver(id, p, Result{Record: rec})
	return true
}

// deliver fires the completion channel. Ownership of the sender passed to
// this step when the entry was removed; a dropped receiver is logged and
// non-fatal because the caller's own cancellation already happened.
func (h *Handler) deliver(id lookup.QueryID, p *pendingFetch, res Result) {
	outcome := outcomeLabel(res.Err)
	if err := p.sender.Send(res); err != nil {
		outcome = "dropped"
		h.log.Warn("failed to deliver fetch result",
			"query", id, "err", ErrResultChannelDropped, "cause", err)
	}
	h.metrics.QueryResolved(outcome, time.Since(p.startedAt))
}

// stop asks the lookup layer to finish the query early. Best-effort.
func (h *Handler) stop(id lookup.QueryID) {
	if h.stopper != nil {
		h.stopper.StopQuery(id)
	}
}
