// Package node ties the GET-record engine to its collaborators: the
// lookup client, the local record store and the close group table. A
// single event-processing goroutine consumes lookup progress events and
// routes them to the engine serially; an HTTP surface exposes record
// fetches, node status and metrics.
package node
