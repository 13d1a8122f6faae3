// Command autonomi runs a single node with its GET-record engine wired
// to an in-process simulated holder neighborhood, so fetch behavior can
// be exercised end to end over HTTP:
//
//	autonomi --node-id n1 --listen :8080 --seed-chunks 3
//	curl localhost:8080/v1/record/<key-hex>?quorum=one
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Pricstas/autonomi/internal/config"
	"github.com/Pricstas/autonomi/internal/node"
	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
	"github.com/Pricstas/autonomi/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	nodeID := flag.String("node-id", "", "node identity (overrides config)")
	listen := flag.String("listen", "", "listen address (overrides config)")
	peersStr := flag.String("peers", "", "known peers as id=addr,... (overrides config)")
	seedChunks := flag.Int("seed-chunks", 3, "number of demo chunks to seed into the simulated neighborhood")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := buildConfig(*configPath, *nodeID, *listen, *peersStr)
	if err != nil {
		die("load config: %v", err)
	}

	network := sim.NewNetwork(0)
	holders := make([]peer.ID, cfg.CloseGroupSize)
	for i := range holders {
		holders[i] = peer.ID(fmt.Sprintf("sim-holder-%d", i+1))
		network.AddHolder(holders[i])
	}

	n, err := node.New(cfg, network, logger)
	if err != nil {
		die("build node: %v", err)
	}
	if err := n.Start(); err != nil {
		die("start node: %v", err)
	}

	for i := 0; i < *seedChunks; i++ {
		chunk := record.NewChunk([]byte(fmt.Sprintf("demo chunk %d from %s", i, cfg.NodeID)))
		network.SeedGroup(holders, chunk)
		logger.Info("seeded demo chunk", "key", chunk.Key.Hex())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	n.Stop()
	network.Close()
}

func buildConfig(path, nodeID, listen, peersStr string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if nodeID != "" {
		cfg.NodeID = nodeID
	}
	if listen != "" {
		cfg.ListenAddr = listen
	}
	if peersStr != "" {
		peers, err := config.ParsePeers(peersStr)
		if err != nil {
			return nil, err
		}
		cfg.Peers = peers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
