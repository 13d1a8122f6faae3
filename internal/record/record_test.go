package record

import (
	"bytes"
	"testing"
)

func TestHashValue_Deterministic(t *testing.T) {
	a := HashValue([]byte("same bytes"))
	b := HashValue([]byte("same bytes"))
	c := HashValue([]byte("other bytes"))

	if a != b {
		t.Error("identical values must hash equal")
	}
	if a == c {
		t.Error("different values must not hash equal")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name    string
		value   []byte
		want    Kind
		wantErr bool
	}{
		{"chunk", []byte{byte(KindChunk), 1, 2, 3}, KindChunk, false},
		{"register", []byte{byte(KindRegister)}, KindRegister, false},
		{"scratchpad", []byte{byte(KindScratchpad), 9}, KindScratchpad, false},
		{"empty value", nil, 0, true},
		{"unknown tag", []byte{0xff, 1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindOf(Record{Key: Key("k"), Value: tt.value})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got kind %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewChunk_SelfVerifying(t *testing.T) {
	payload := []byte("chunk payload bytes")
	rec := NewChunk(payload)

	if !IsSelfVerifying(rec) {
		t.Error("chunk record must classify as self-verifying")
	}
	if !bytes.Equal(rec.Key, ChunkAddress(payload)) {
		t.Error("chunk key must be the content-derived address")
	}

	got, err := Payload(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("payload round trip mismatch")
	}
}

func TestIsSelfVerifying_NonChunk(t *testing.T) {
	reg := Record{Key: Key("k"), Value: []byte{byte(KindRegister), 1}}
	if IsSelfVerifying(reg) {
		t.Error("register record must not classify as self-verifying")
	}
	if IsSelfVerifying(Record{Key: Key("k")}) {
		t.Error("empty value must not classify as self-verifying")
	}
}

func TestKeyString_Elides(t *testing.T) {
	long := Key(bytes.Repeat([]byte{0xab}, 32))
	s := long.String()
	if len(s) != 14 {
		t.Errorf("elided key should be 14 chars, got %q", s)
	}

	short := Key([]byte{0x01, 0x02})
	if short.String() != "0102" {
		t.Errorf("short key should print in full, got %q", short.String())
	}
}

func TestKeyFromHex_RoundTrip(t *testing.T) {
	k := Key([]byte("some-key"))
	back, err := KeyFromHex(k.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(back, k) {
		t.Error("hex round trip mismatch")
	}

	if _, err := KeyFromHex("zz"); err == nil {
		t.Error("invalid hex must error")
	}
}
