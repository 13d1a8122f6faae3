package record

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key is the opaque network address of a record.
type Key []byte

// String renders a short form of the key suitable for logs.
// Long keys are elided in the middle so lines stay readable.
func (k Key) String() string {
	h := hex.EncodeToString(k)
	if len(h) <= 12 {
		return h
	}
	return h[:6] + ".." + h[len(h)-6:]
}

// Hex returns the full hex encoding of the key.
func (k Key) Hex() string {
	return hex.EncodeToString(k)
}

// KeyFromHex parses a full hex key as produced by Hex.
func KeyFromHex(s string) (Key, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Key(b), nil
}

// Record is a single key/value entry as held by peers. Two records agree
// iff their value bytes hash equal; keys are not part of agreement because
// peers may claim different values under the same key.
type Record struct {
	Key   Key
	Value []byte
}

// ContentHash is the digest of a record's value bytes, used to group
// responses into versions.
type ContentHash [sha256.Size]byte

// HashValue computes the content hash of a value.
func HashValue(value []byte) ContentHash {
	return sha256.Sum256(value)
}

// String renders a short hex form of the hash.
func (h ContentHash) String() string {
	return hex.EncodeToString(h[:6])
}
