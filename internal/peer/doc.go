// Package peer defines peer identities, identity sets, and the
// responder variant distinguishing a remote peer from the local node.
package peer
