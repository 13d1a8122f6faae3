package it

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phayes/freeport"

	"github.com/Pricstas/autonomi/internal/config"
	"github.com/Pricstas/autonomi/internal/node"
	"github.com/Pricstas/autonomi/internal/sim"
)

// Harness runs one node backed by a simulated holder neighborhood, with
// its HTTP surface bound to a free local port.
type Harness struct {
	Node    *node.Node
	Network *sim.Network
	baseURL string
	client  *http.Client
}

// StartHarness brings up a node for integration tests.
func StartHarness(nodeID string, closeGroupSize int) (*Harness, error) {
	port, err := freeport.GetFreePort()
	if err != nil {
		return nil, fmt.Errorf("allocate port: %w", err)
	}

	cfg := &config.Config{
		NodeID:         nodeID,
		ListenAddr:     fmt.Sprintf("127.0.0.1:%d", port),
		CloseGroupSize: closeGroupSize,
		DefaultQuorum:  "majority",
	}

	network := sim.NewNetwork(0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n, err := node.New(cfg, network, logger)
	if err != nil {
		return nil, fmt.Errorf("build node: %w", err)
	}
	if err := n.Start(); err != nil {
		return nil, fmt.Errorf("start node: %w", err)
	}

	return &Harness{
		Node:    n,
		Network: network,
		baseURL: "http://" + n.Addr(),
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Stop tears the harness down.
func (h *Harness) Stop() {
	h.Node.Stop()
	h.Network.Close()
}

// URL builds an absolute URL for a path on the node's HTTP surface.
func (h *Harness) URL(path string) string {
	return h.baseURL + path
}

// Get performs a GET against the node and returns status and body.
func (h *Harness) Get(path string) (int, []byte, error) {
	resp, err := h.client.Get(h.URL(path))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// GetRecordPath builds the fetch path for a key with an optional quorum
// override.
func GetRecordPath(keyHex, quorum string) string {
	path := "/v1/record/" + keyHex
	if quorum != "" {
		path += "?quorum=" + quorum
	}
	return path
}
