// Package record defines the key/value records served by holder peers,
// content hashing used to bucket divergent copies, and the record-kind
// header that marks self-verifying chunks.
package record
