package weave

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/weave-ballot/crypto/bech32"
	"github.com/iov-one/weave-ballot/errors"
)

// AddressLength is the byte length of every address. Stored voter keys
// depend on it, so it must never change for an existing chain.
const AddressLength = 20

// The data section is binary, (?s) lets it contain newlines.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition names who may authorize an action, as "extension/type/data".
// The signature extension produces one per verified public key, and the
// address of that condition is the voter.
type Condition []byte

// NewCondition joins the three sections.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse splits the condition into its sections.
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := conditionFormat.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address derives the address controlled by this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals compares byte wise.
func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String prints the data section in hex.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate checks the "extension/type/data" format.
func (c Condition) Validate() error {
	if !conditionFormat.Match(c) {
		return errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	return json.Marshal(serialized)
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return c.deserialize(enc)
}

// deserialize parses the String representation.
func (c *Condition) deserialize(source string) error {
	if len(source) == 0 {
		*c = nil
		return nil
	}

	args := strings.Split(source, "/")
	if len(args) != 3 {
		return errors.ErrInput.New("invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return errors.ErrInput.Newf("malformed condition data: %s", err)
	}
	*c = NewCondition(args[0], args[1], data)
	return nil
}

// Address identifies an account: a chairperson, a voter or a delegate. It
// is a truncated sha256 digest of a Condition.
type Address []byte

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that does not share memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// MarshalJSON encodes as upper case hex instead of base64.
func (a Address) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(a))
	return json.Marshal(s)
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders maps an address prefix to its decoder. Decoders are never
// called with an empty string.
var addressDecoders = map[string]func(string) (Address, error){
	"hex": func(enc string) (Address, error) {
		raw, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		return Address(raw), nil
	},
	"cond": func(enc string) (Address, error) {
		var c Condition
		if err := c.deserialize(enc); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	},
	"bech32": func(enc string) (Address, error) {
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
		}
		return Address(payload), nil
	},
}

// ParseAddress decodes an address as printed by the command line tools.
// Plain input is hex. A "hex:", "cond:" or "bech32:" prefix selects the
// format explicitly. Empty input decodes to a nil address.
func ParseAddress(enc string) (Address, error) {
	format := "hex"
	if i := strings.Index(enc, ":"); i >= 0 {
		format, enc = enc[:i], enc[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.ErrType.Newf("unknown format %q", format)
	}
	if enc == "" {
		return nil, nil
	}
	addr, err := decode(enc)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// Bech32String encodes the address with the given human readable part.
func (a Address) Bech32String(hrp string) (string, error) {
	raw, err := bech32.Encode(hrp, a)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// String is upper case hex, "(nil)" for an empty address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Validate checks the length.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address: %v", a)
	}
	return nil
}

// NewAddress hashes data into an address. Nil data gives a nil address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}
