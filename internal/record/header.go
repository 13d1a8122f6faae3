package record

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// Kind is the one-byte tag leading every record value on the wire.
type Kind byte

const (
	// KindChunk marks immutable content-addressed data: the record's key
	// is derived from the payload bytes, so the payload verifies itself.
	KindChunk Kind = iota
	// KindRegister marks mutable CRDT register data.
	KindRegister
	// KindScratchpad marks mutable scratchpad data.
	KindScratchpad

	kindEnd
)

// ErrEmptyValue is returned when a record value has no header byte.
var ErrEmptyValue = errors.New("record value is empty")

// UnknownKindError is returned when the header byte is not a known kind.
type UnknownKindError struct {
	Tag byte
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown record kind tag %d", e.Tag)
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChunk:
		return "chunk"
	case KindRegister:
		return "register"
	case KindScratchpad:
		return "scratchpad"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// KindOf reads the kind tag from a record's value.
func KindOf(r Record) (Kind, error) {
	if len(r.Value) == 0 {
		return 0, ErrEmptyValue
	}
	k := Kind(r.Value[0])
	if k >= kindEnd {
		return 0, &UnknownKindError{Tag: r.Value[0]}
	}
	return k, nil
}

// Payload strips the kind tag from a record's value.
func Payload(r Record) ([]byte, error) {
	if len(r.Value) == 0 {
		return nil, ErrEmptyValue
	}
	return r.Value[1:], nil
}

// IsSelfVerifying reports whether the record claims to be a chunk, i.e.
// content whose address is derived from its own bytes. A malformed header
// simply classifies as not self-verifying.
func IsSelfVerifying(r Record) bool {
	k, err := KindOf(r)
	return err == nil && k == KindChunk
}

// ChunkAddress derives the network key of a chunk payload.
func ChunkAddress(payload []byte) Key {
	sum := sha256.Sum256(payload)
	return Key(sum[:])
}

// NewChunk builds a well-formed chunk record for a payload: the value is
// the tagged payload and the key is the content-derived address.
func NewChunk(payload []byte) Record {
	value := make([]byte, 0, len(payload)+1)
	value = append(value, byte(KindChunk))
	value = append(value, payload...)
	return Record{Key: ChunkAddress(payload), Value: value}
}
