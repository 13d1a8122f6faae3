// Package lookup defines the contract between this engine and the DHT
// lookup layer: query identifiers, the progress events a lookup emits
// while collecting record copies, and the surface the node drives to
// start and stop lookups. The lookup algorithm itself (routing, peer
// discovery, transport) is an external collaborator.
package lookup
