package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/Pricstas/autonomi/internal/closegroup"
	"github.com/Pricstas/autonomi/internal/config"
	"github.com/Pricstas/autonomi/internal/getrecord"
	"github.com/Pricstas/autonomi/internal/lookup"
	"github.com/Pricstas/autonomi/internal/oneshot"
	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/quorum"
	"github.com/Pricstas/autonomi/internal/record"
	"github.com/Pricstas/autonomi/internal/stats"
	"github.com/Pricstas/autonomi/internal/storage"
)

// Node is a single network participant: the fetch engine plus the
// collaborators it needs to answer GET-record requests.
type Node struct {
	cfg     *config.Config
	self    peer.ID
	client  lookup.Client
	store   storage.Store
	table   *closegroup.Table
	engine  *getrecord.Handler
	metrics *stats.FetchMetrics
	log     *slog.Logger

	httpServer  *fasthttp.Server
	metricsHTTP fasthttp.RequestHandler
	ln          net.Listener

	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
}

// New creates a node from its config and lookup collaborator.
func New(cfg *config.Config, client lookup.Client, logger *slog.Logger) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("lookup client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("node", cfg.NodeID)

	registry := prometheus.NewRegistry()
	metrics := stats.NewFetchMetrics(registry)

	self := peer.ID(cfg.NodeID)
	table := closegroup.NewTable()
	table.SetPeers(cfg.PeerIDs())

	n := &Node{
		cfg:     cfg,
		self:    self,
		client:  client,
		store:   storage.NewInMemoryStore(),
		table:   table,
		engine:  getrecord.NewHandler(self, cfg.CloseGroupSize, client, metrics, logger),
		metrics: metrics,
		log:     logger,
		metricsHTTP: fasthttpadaptor.NewFastHTTPHandler(
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
		quit: make(chan struct{}),
	}
	n.httpServer = &fasthttp.Server{Handler: n.handler}
	return n, nil
}

// Start begins consuming lookup events and serving HTTP.
func (n *Node) Start() error {
	ln, err := net.Listen("tcp", n.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", n.cfg.ListenAddr, err)
	}
	n.ln = ln

	n.wg.Add(2)
	go n.run()
	go func() {
		defer n.wg.Done()
		if err := n.httpServer.Serve(ln); err != nil && !errors.Is(err, net.ErrClosed) {
			n.log.Error("http server stopped", "err", err)
		}
	}()

	n.log.Info("node started", "addr", ln.Addr().String(),
		"peers", n.table.Len(), "close_group", n.cfg.CloseGroupSize)
	return nil
}

// Addr returns the bound listen address, valid after Start.
func (n *Node) Addr() string {
	if n.ln == nil {
		return ""
	}
	return n.ln.Addr().String()
}

// Stop shuts the node down gracefully.
func (n *Node) Stop() {
	n.stopOnce.Do(func() {
		close(n.quit)
		// Serve registers the listener with the server asynchronously;
		// a Shutdown that wins that race returns without stopping the
		// accept loop. Closing the listener unblocks Serve either way.
		if n.ln != nil {
			if err := n.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				n.log.Error("close listener", "err", err)
			}
		}
		if err := n.httpServer.Shutdown(); err != nil {
			n.log.Error("http shutdown", "err", err)
		}
		n.wg.Wait()
		n.log.Info("node stopped")
	})
}

// run is the single event-processing loop: every lookup progress event
// is dispatched to the engine serially, so registry mutation for a
// given query is strictly ordered.
func (n *Node) run() {
	defer n.wg.Done()
	for {
		select {
		case ev, ok := <-n.client.Events():
			if !ok {
				return
			}
			n.dispatch(ev)
		case <-n.quit:
			return
		}
	}
}

func (n *Node) dispatch(ev lookup.Event) {
	switch e := ev.(type) {
	case lookup.FoundRecord:
		n.engine.HandleFound(e.ID, e.Record, e.Holder, e.Stats, e.Step)
	case lookup.Finished:
		n.engine.HandleFinished(e.ID, e.CacheCandidates, e.Stats, e.Step)
	case lookup.Failed:
		n.engine.HandleFailed(e.ID, e.Kind, e.Stats, e.Step)
	default:
		n.log.Warn("unknown lookup event", "query", ev.Query())
	}
}

// GetRecord fetches a record, attaching the close group of key as the
// expected-holder set when peer membership is known. Quorum-one fetches
// skip the set so the self-verifying fast path stays available.
func (n *Node) GetRecord(ctx context.Context, key record.Key, policy quorum.Policy) (record.Record, error) {
	var holders peer.Set
	if policy != quorum.One() {
		holders = n.ExpectedHolders(key)
	}
	return n.GetRecordWithHolders(ctx, key, policy, holders)
}

// GetRecordWithHolders fetches a record with an explicit expected-holder
// set, typically derived from ExpectedHolders. The set is diagnostic
// only; it never affects the quorum count.
func (n *Node) GetRecordWithHolders(ctx context.Context, key record.Key, policy quorum.Policy, holders peer.Set) (record.Record, error) {
	id := lookup.NewQueryID()
	tx, rx := oneshot.New[getrecord.Result]()

	if err := n.engine.Register(id, tx, policy, holders); err != nil {
		return record.Record{}, err
	}
	n.log.Debug("fetch registered", "query", id, "key", key, "quorum", policy)

	// A locally held copy joins accumulation as the local responder and
	// may resolve the query outright (quorum one, or a chunk).
	if rec, ok := n.store.Get(key); ok {
		n.engine.HandleFound(id, rec, peer.Self(), lookup.Stats{}, lookup.ProgressStep{Count: 1})
		select {
		case res := <-rx.Recv():
			return res.Record, res.Err
		default:
		}
	}

	n.client.StartGetRecord(id, key)

	select {
	case res := <-rx.Recv():
		return res.Record, res.Err
	case <-ctx.Done():
		// Abandoning the receiver is the only cancellation signal; the
		// engine discovers it at delivery time.
		rx.Close()
		n.client.StopQuery(id)
		return record.Record{}, ctx.Err()
	}
}

// ExpectedHolders returns the close group of a key over the currently
// known peers.
func (n *Node) ExpectedHolders(key record.Key) peer.Set {
	return n.table.ExpectedHolders(key, n.cfg.CloseGroupSize)
}

// StoreLocal stores a record in the node-local store. The replication
// path that normally does this is an external collaborator.
func (n *Node) StoreLocal(rec record.Record) {
	n.store.Put(rec)
}

// Inflight returns the number of pending fetches.
func (n *Node) Inflight() int {
	return n.engine.Inflight()
}
