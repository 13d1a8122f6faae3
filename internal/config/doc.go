// Package config holds node configuration: identity, listen address,
// known peers, close group width and the default read quorum. Config is
// loaded from a YAML file with flag-friendly peer-string parsing kept
// for overrides.
package config
