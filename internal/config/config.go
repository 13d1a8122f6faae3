package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/quorum"
)

// Peer identifies a known peer node.
type Peer struct {
	ID   string `yaml:"id"`
	Addr string `yaml:"addr"`
}

// Config holds the node configuration.
type Config struct {
	NodeID         string `yaml:"node_id"`
	ListenAddr     string `yaml:"listen_addr"`
	Peers          []Peer `yaml:"peers"`
	CloseGroupSize int    `yaml:"close_group_size"`
	DefaultQuorum  string `yaml:"default_quorum"`
}

// Default returns a config with defaults applied.
func Default() *Config {
	return &Config{
		ListenAddr:     ":8080",
		CloseGroupSize: quorum.DefaultCloseGroupSize,
		DefaultQuorum:  "majority",
	}
}

// Load reads a YAML config file, applies defaults and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.CloseGroupSize <= 0 {
		cfg.CloseGroupSize = quorum.DefaultCloseGroupSize
	}
	if cfg.DefaultQuorum == "" {
		cfg.DefaultQuorum = "majority"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for internal consistency.
func (c *Config) Validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("node_id cannot be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	for _, p := range c.Peers {
		if p.ID == "" || p.Addr == "" {
			return fmt.Errorf("peer ID and address cannot be empty: %+v", p)
		}
	}
	if _, err := c.Quorum(); err != nil {
		return err
	}
	return nil
}

// Quorum parses the default quorum policy: "one", "majority", "all" or
// "n:<count>".
func (c *Config) Quorum() (quorum.Policy, error) {
	return ParseQuorum(c.DefaultQuorum)
}

// ParseQuorum parses a quorum policy string.
func ParseQuorum(s string) (quorum.Policy, error) {
	switch s {
	case "", "majority":
		return quorum.Majority(), nil
	case "one":
		return quorum.One(), nil
	case "all":
		return quorum.All(), nil
	}
	if rest, ok := strings.CutPrefix(s, "n:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return quorum.Policy{}, fmt.Errorf("invalid quorum count in %q", s)
		}
		return quorum.AtLeastN(n), nil
	}
	return quorum.Policy{}, fmt.Errorf("unknown quorum policy %q", s)
}

// ParsePeers parses a comma-separated list of peers in the format:
// "id1=addr1,id2=addr2,id3=addr3"
func ParsePeers(peersStr string) ([]Peer, error) {
	if peersStr == "" {
		return []Peer{}, nil
	}

	parts := strings.Split(peersStr, ",")
	peers := make([]Peer, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid peer format: %s (expected id=addr)", part)
		}

		id := strings.TrimSpace(kv[0])
		addr := strings.TrimSpace(kv[1])

		if id == "" || addr == "" {
			return nil, fmt.Errorf("peer ID and address cannot be empty: %s", part)
		}

		peers = append(peers, Peer{
			ID:   id,
			Addr: addr,
		})
	}

	return peers, nil
}

// PeerIDs returns the identities of all configured peers, excluding the
// node itself if present in the list.
func (c *Config) PeerIDs() []peer.ID {
	ids := make([]peer.ID, 0, len(c.Peers))
	for _, p := range c.Peers {
		if p.ID != c.NodeID {
			ids = append(ids, peer.ID(p.ID))
		}
	}
	return ids
}
