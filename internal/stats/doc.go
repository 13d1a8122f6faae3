// Package stats exposes Prometheus metrics for the fetch engine. All
// methods are nil-receiver safe so library users can opt out of metrics
// by passing a nil collector set.
package stats
