// Package closegroup computes the replication neighborhood of a key:
// the fixed-size set of known peers closest to the key in the XOR
// metric space. The node uses it to anticipate which peers should hold
// a record; the result is diagnostic bookkeeping, never a correctness
// input to quorum counting.
package closegroup
