package closegroup

import (
	"bytes"
	"crypto/sha256"
	"sort"
	"sync"

	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
)

// Address is a point in the XOR metric space. Peers and keys map into
// the same space so distance between them is well defined.
type Address [sha256.Size]byte

// AddressOfPeer derives a peer's address from its identity.
func AddressOfPeer(id peer.ID) Address {
	return sha256.Sum256([]byte(id))
}

// AddressOfKey derives a record key's address.
func AddressOfKey(k record.Key) Address {
	return sha256.Sum256(k)
}

// Distance is the XOR distance between two addresses, compared
// lexicographically.
type Distance [sha256.Size]byte

// DistanceTo returns the XOR distance from a to b.
func (a Address) DistanceTo(b Address) Distance {
	var d Distance
	for i := range a {
		d[i] = a[i] ^ b[i]
	}
	return d
}

// Less reports whether d is strictly closer than other.
func (d Distance) Less(other Distance) bool {
	return bytes.Compare(d[:], other[:]) < 0
}

// Table tracks the peers currently known to the node. Membership changes
// arrive from the routing layer; lookups are deterministic for a fixed
// membership.
type Table struct {
	mu    sync.RWMutex
	peers map[peer.ID]Address
}

// NewTable builds an empty table.
func NewTable() *Table {
	return &Table{peers: make(map[peer.ID]Address)}
}

// Add inserts a peer. Re-adding is a no-op.
func (t *Table) Add(id peer.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.peers[id]; !ok {
		t.peers[id] = AddressOfPeer(id)
	}
}

// Remove deletes a peer.
func (t *Table) Remove(id peer.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.peers, id)
}

// SetPeers replaces the whole membership.
func (t *Table) SetPeers(ids []peer.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peers = make(map[peer.ID]Address, len(ids))
	for _, id := range ids {
		t.peers[id] = AddressOfPeer(id)
	}
}

// Len returns the number of known peers.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.peers)
}

// Peers returns the membership in sorted order.
func (t *Table) Peers() []peer.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]peer.ID, 0, len(t.peers))
	for id := range t.peers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CloseGroup returns up to k known peers closest to the key by XOR
// distance, nearest first. Ties break on peer ID so the result is
// deterministic.
func (t *Table) CloseGroup(key record.Key, k int) []peer.ID {
	target := AddressOfKey(key)

	t.mu.RLock()
	type member struct {
		id   peer.ID
		dist Distance
	}
	members := make([]member, 0, len(t.peers))
	for id, addr := range t.peers {
		members = append(members, member{id: id, dist: addr.DistanceTo(target)})
	}
	t.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		if members[i].dist == members[j].dist {
			return members[i].id < members[j].id
		}
		return members[i].dist.Less(members[j].dist)
	})

	if k > len(members) {
		k = len(members)
	}
	group := make([]peer.ID, 0, k)
	for _, m := range members[:k] {
		group = append(group, m.id)
	}
	return group
}

// ExpectedHolders returns the close group of a key as a peer set, ready
// to seed a fetch's expected-holder bookkeeping.
func (t *Table) ExpectedHolders(key record.Key, k int) peer.Set {
	return peer.NewSet(t.CloseGroup(key, k)...)
}
