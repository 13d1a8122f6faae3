package oneshot

import (
	"errors"
	"testing"
)

func TestSendRecv(t *testing.T) {
	tx, rx := New[int]()

	if err := tx.Send(42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := <-rx.Recv(); got != 42 {
		t.Errorf("received %d, want 42", got)
	}
}

func TestSecondSendFails(t *testing.T) {
	tx, _ := New[string]()

	if err := tx.Send("first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Send("second"); !errors.Is(err, ErrAlreadySent) {
		t.Errorf("second send error = %v, want ErrAlreadySent", err)
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	tx, rx := New[int]()

	rx.Close()
	rx.Close() // idempotent

	if err := tx.Send(1); !errors.Is(err, ErrReceiverClosed) {
		t.Errorf("send after close error = %v, want ErrReceiverClosed", err)
	}

	select {
	case v := <-rx.Recv():
		t.Errorf("unexpected value %d after close", v)
	default:
	}
}

func TestCloseAfterSendKeepsValue(t *testing.T) {
	tx, rx := New[int]()

	if err := tx.Send(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rx.Close()

	if got := <-rx.Recv(); got != 7 {
		t.Errorf("received %d, want 7", got)
	}
}
