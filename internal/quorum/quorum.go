package quorum

import "fmt"

// DefaultCloseGroupSize is the width of the replication neighborhood: the
// number of peers considered authoritative holders for any given key.
const DefaultCloseGroupSize = 5

type kind uint8

const (
	kindOne kind = iota
	kindMajority
	kindAll
	kindAtLeast
)

// Policy selects how many agreeing responses resolve a read.
// The zero value is One.
type Policy struct {
	kind kind
	n    int
}

// One resolves after a single response.
func One() Policy {
	return Policy{kind: kindOne}
}

// Majority resolves after a majority of the close group responds.
func Majority() Policy {
	return Policy{kind: kindMajority}
}

// All resolves only when the whole close group responds.
func All() Policy {
	return Policy{kind: kindAll}
}

// AtLeastN resolves after n responses.
func AtLeastN(n int) Policy {
	return Policy{kind: kindAtLeast, n: n}
}

func (p Policy) String() string {
	switch p.kind {
	case kindOne:
		return "one"
	case kindMajority:
		return "majority"
	case kindAll:
		return "all"
	default:
		return fmt.Sprintf("at-least-%d", p.n)
	}
}

// MajorityOf returns the majority threshold for a group of n peers.
func MajorityOf(n int) int {
	return n/2 + 1
}

// ExpectedAnswers maps a policy and a close group width to the number of
// distinct agreeing responders required before a fetch resolves.
func ExpectedAnswers(p Policy, groupSize int) int {
	switch p.kind {
	case kindMajority:
		return MajorityOf(groupSize)
	case kindAll:
		return groupSize
	case kindAtLeast:
		return p.n
	default:
		return 1
	}
}
