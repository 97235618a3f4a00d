package crypto

import (
	"encoding/hex"
	"io/ioutil"
	"os"

	"github.com/iov-one/weave-ballot/errors"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// DecodePrivateKey reads a hex string created by EncodePrivateKey
// and returns the original PrivateKey
func DecodePrivateKey(hexKey string) (*PrivateKey, error) {
	data, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var key PrivateKey
	if err := key.Unmarshal(data); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(key.Ed25519) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	return &key, nil
}

// EncodePrivateKey stores the private key as a hex string
// that can be saved and later loaded
func EncodePrivateKey(key *PrivateKey) (string, error) {
	data, err := key.Marshal()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}

// LoadPrivateKey will load a private key from a file,
// Which was previously writen by SavePrivateKey
func LoadPrivateKey(filename string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "read %q: %s", filename, err)
	}
	return DecodePrivateKey(string(raw))
}

// SavePrivateKey will encode the private key in hex and write to
// the named file. It will refuse to overwrite a file unless forced.
func SavePrivateKey(key *PrivateKey, filename string, force bool) error {
	if !force {
		if _, err := os.Stat(filename); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "refusing to overwrite %s", filename)
		}
	}
	hexKey, err := EncodePrivateKey(key)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(filename, []byte(hexKey), KeyPerm); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
