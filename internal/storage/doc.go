// Package storage holds the node-local record store. A locally stored
// copy participates in fetch accumulation as the distinguished local
// responder; persistence and the PUT/replication path live elsewhere.
package storage
