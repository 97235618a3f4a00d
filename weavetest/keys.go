package weavetest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a condition of a new random ed25519 key.
func NewCondition() weave.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random weave address generated on the fly.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()
	raw := make([]byte, weave.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return weave.Address(raw)
}

// ParseAddress takes a weave address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) weave.Address {
	t.Helper()
	addr, err := weave.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// SequenceID returns an ID encoded as if it was generated by the bucket
// sequence call.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
