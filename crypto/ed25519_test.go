package crypto

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/weavetest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	bz, err := sig.Marshal()
	assert.Nil(t, err)
	bz2, err := sig2.Marshal()
	assert.Nil(t, err)

	if bytes.Equal(bz, bz2) {
		t.Fatal("marshaling different signatures produce the same binary representation")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, &Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
}

func TestEd25519Address(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()
	empty := PublicKey{}

	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, pub2.Condition().Validate())
	if bytes.Equal(pub.Condition(), pub2.Condition()) {
		t.Fatal("different public keys produce the same condition")
	}
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())

	bz, err := pub.Marshal()
	assert.Nil(t, err)
	var read PublicKey
	assert.Nil(t, read.Unmarshal(bz))
	assert.Equal(t, pub.Condition(), read.Condition())
	assert.Equal(t, pub.Address(), read.Address())
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	cases := map[string]struct {
		seed     []byte
		expected []byte
	}{
		"success 1": {
			seed:     []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			expected: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 59, 106, 39, 188, 206, 182, 164, 45, 98, 163, 168, 208, 42, 111, 13, 115, 101, 50, 21, 119, 29, 226, 67, 166, 58, 192, 72, 161, 139, 89, 218, 41},
		},
		"failure no seed": {
			seed:     nil,
			expected: nil,
		},
		"failure wrong seed size (n<32)": {
			seed:     []byte{0},
			expected: nil,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if tc.expected != nil {
				privKey := PrivKeyEd25519FromSeed(tc.seed)
				assert.Equal(t, tc.expected, privKey.GetEd25519())
			} else {
				assert.Panics(t, func() { PrivKeyEd25519FromSeed(tc.seed) })
			}
		})
	}
}

func TestEmptyPrivateKeySign(t *testing.T) {
	emptyKey := &PrivateKey{}
	if sig, err := emptyKey.Sign([]byte("foo bar")); !errors.ErrState.Is(err) {
		t.Fatalf("want an error, got %v", sig)
	}
	if c := emptyKey.PublicKey().Condition(); c != nil {
		t.Fatalf("want no condition, got %s", c)
	}
}

func TestPrivateKeyFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "crypto")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	key := GenPrivKeyEd25519()
	path := filepath.Join(dir, "key.priv")

	assert.Nil(t, SavePrivateKey(key, path, false))
	if err := SavePrivateKey(key, path, false); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}
	assert.Nil(t, SavePrivateKey(key, path, true))

	loaded, err := LoadPrivateKey(path)
	assert.Nil(t, err)
	assert.Equal(t, key.Ed25519, loaded.Ed25519)

	_, err = LoadPrivateKey(filepath.Join(dir, "missing"))
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = DecodePrivateKey("not hex")
	assert.IsErr(t, errors.ErrInput, err)
}
