package closegroup

import (
	"reflect"
	"testing"

	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
)

func TestCloseGroup_Deterministic(t *testing.T) {
	ids := []peer.ID{"n1", "n2", "n3", "n4", "n5", "n6", "n7"}

	a := NewTable()
	a.SetPeers(ids)
	b := NewTable()
	// Insert in a different order; result must not depend on it.
	for i := len(ids) - 1; i >= 0; i-- {
		b.Add(ids[i])
	}

	key := record.Key("some-record-key")
	ga := a.CloseGroup(key, 5)
	gb := b.CloseGroup(key, 5)

	if !reflect.DeepEqual(ga, gb) {
		t.Errorf("close group depends on insertion order: %v vs %v", ga, gb)
	}
	if len(ga) != 5 {
		t.Errorf("group size = %d, want 5", len(ga))
	}
}

func TestCloseGroup_OrderedByDistance(t *testing.T) {
	tbl := NewTable()
	ids := []peer.ID{"a", "b", "c", "d", "e", "f", "g", "h"}
	tbl.SetPeers(ids)

	key := record.Key("target")
	target := AddressOfKey(key)
	group := tbl.CloseGroup(key, len(ids))

	for i := 1; i < len(group); i++ {
		prev := AddressOfPeer(group[i-1]).DistanceTo(target)
		cur := AddressOfPeer(group[i]).DistanceTo(target)
		if cur.Less(prev) {
			t.Fatalf("group not ordered by distance at %d: %v", i, group)
		}
	}

	// A larger membership never pushes out a closer peer.
	nearest := group[0]
	tbl.Add("z")
	if got := tbl.CloseGroup(key, 1); got[0] != nearest && !AddressOfPeer("z").DistanceTo(target).Less(AddressOfPeer(nearest).DistanceTo(target)) {
		t.Errorf("nearest peer changed without a closer candidate: %v", got)
	}
}

func TestCloseGroup_SmallMembership(t *testing.T) {
	tbl := NewTable()
	tbl.Add("only")

	group := tbl.CloseGroup(record.Key("k"), 5)
	if len(group) != 1 || group[0] != "only" {
		t.Errorf("group = %v, want [only]", group)
	}

	empty := NewTable()
	if got := empty.CloseGroup(record.Key("k"), 5); len(got) != 0 {
		t.Errorf("empty table produced group %v", got)
	}
}

func TestTable_Membership(t *testing.T) {
	tbl := NewTable()
	tbl.Add("n1")
	tbl.Add("n1")
	tbl.Add("n2")

	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}

	tbl.Remove("n1")
	if got := tbl.Peers(); !reflect.DeepEqual(got, []peer.ID{"n2"}) {
		t.Errorf("Peers() = %v", got)
	}
}

func TestExpectedHolders(t *testing.T) {
	tbl := NewTable()
	tbl.SetPeers([]peer.ID{"n1", "n2", "n3"})

	set := tbl.ExpectedHolders(record.Key("k"), 2)
	if set.Len() != 2 {
		t.Errorf("expected holders size = %d, want 2", set.Len())
	}
}

func TestDistance_SelfIsZero(t *testing.T) {
	addr := AddressOfPeer("p")
	if addr.DistanceTo(addr) != (Distance{}) {
		t.Error("distance to self must be zero")
	}

	other := AddressOfPeer("q")
	if !(Distance{}).Less(addr.DistanceTo(other)) {
		t.Error("distance to a different address must be positive")
	}
}
