package peer

import "sort"

// ID is the opaque identity of a network participant.
type ID string

// Responder names the origin of a record response: either a remote peer
// or the local node itself. It is a two-case variant, not a nullable ID.
type Responder struct {
	id    ID
	local bool
}

// From builds a responder for a remote peer.
func From(id ID) Responder {
	return Responder{id: id}
}

// Self builds the responder denoting the local node's own copy.
func Self() Responder {
	return Responder{local: true}
}

// IsLocal reports whether the response came from the local node.
func (r Responder) IsLocal() bool {
	return r.local
}

// Remote returns the remote peer ID, if any.
func (r Responder) Remote() (ID, bool) {
	if r.local {
		return "", false
	}
	return r.id, true
}

func (r Responder) String() string {
	if r.local {
		return "local"
	}
	return string(r.id)
}

// Set is a set of peer identities.
type Set map[ID]struct{}

// NewSet builds a set from the given identities.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an identity.
func (s Set) Add(id ID) {
	s[id] = struct{}{}
}

// Remove deletes an identity and reports whether it was present.
func (s Set) Remove(id ID) bool {
	if _, ok := s[id]; !ok {
		return false
	}
	delete(s, id)
	return true
}

// Has reports membership.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the set size.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// IDs returns the members in sorted order, for deterministic logs.
func (s Set) IDs() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
