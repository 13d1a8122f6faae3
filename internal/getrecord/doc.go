// Package getrecord reconciles the stream of lookup progress events for
// a GET-record query into exactly one terminal answer per query. It
// accumulates copies by content hash, applies the configured quorum
// policy, surfaces disagreement between holders as a split record,
// salvages timed-out queries from sufficient partial evidence, and
// short-circuits self-verifying chunk fetches after the first copy.
package getrecord
