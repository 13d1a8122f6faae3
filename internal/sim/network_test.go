package sim

import (
	"fmt"
	"testing"
	"time"

	"github.com/Pricstas/autonomi/internal/lookup"
	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
)

func TestReplay_EmitsCopiesThenFinished(t *testing.T) {
	n := NewNetwork(0)
	rec := record.Record{
		Key:   record.Key("k"),
		Value: append([]byte{byte(record.KindRegister)}, []byte("v")...),
	}
	n.Seed("p1", rec)
	n.Seed("p2", rec)

	id := lookup.NewQueryID()
	n.StartGetRecord(id, rec.Key)

	events := make([]lookup.Event, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case ev := <-n.Events():
			events = append(events, ev)
		case <-time.After(time.Second):
			t.Fatalf("missing event %d", i)
		}
	}

	for i := 0; i < 2; i++ {
		found, ok := events[i].(lookup.FoundRecord)
		if !ok {
			t.Fatalf("event %d: expected FoundRecord, got %T", i, events[i])
		}
		if found.Step.Count != i+1 {
			t.Errorf("event %d: step count = %d", i, found.Step.Count)
		}
	}
	fin, ok := events[2].(lookup.Finished)
	if !ok {
		t.Fatalf("expected Finished, got %T", events[2])
	}
	if !fin.Step.Last {
		t.Error("finished step not marked last")
	}
}

func TestClose_UnblocksPendingReplay(t *testing.T) {
	n := NewNetwork(0)
	rec := record.Record{
		Key:   record.Key("k"),
		Value: append([]byte{byte(record.KindRegister)}, []byte("v")...),
	}
	// More seeded copies than the event buffer holds, and no consumer:
	// the replay goroutine must block mid-stream.
	for i := 0; i < 80; i++ {
		n.Seed(peer.ID(fmt.Sprintf("p%d", i)), rec)
	}
	n.StartGetRecord(lookup.NewQueryID(), rec.Key)
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		n.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
}
