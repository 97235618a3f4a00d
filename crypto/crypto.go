/*
Package crypto provides the ed25519 keys and signatures used to authenticate
transactions.

Keys and signatures are persisted as protobuf messages. A public key
is represented on chain as a condition with the "sigs/ed25519" prefix.
*/
package crypto

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/weave-ballot"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Address returns the address of the condition represented by this key.
func (p *PublicKey) Address() weave.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// GetEd25519 returns the raw key or nil.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// GetEd25519 returns the raw signature or nil.
func (s *Signature) GetEd25519() []byte {
	if s == nil {
		return nil
	}
	return s.Ed25519
}

type publicKeyWire PublicKey

func (m *publicKeyWire) Reset()         { *m = publicKeyWire{} }
func (m *publicKeyWire) String() string { return proto.CompactTextString(m) }
func (*publicKeyWire) ProtoMessage()    {}

func (p *PublicKey) Marshal() ([]byte, error) { return proto.Marshal((*publicKeyWire)(p)) }
func (p *PublicKey) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*publicKeyWire)(p)) }

type privateKeyWire PrivateKey

func (m *privateKeyWire) Reset()         { *m = privateKeyWire{} }
func (m *privateKeyWire) String() string { return proto.CompactTextString(m) }
func (*privateKeyWire) ProtoMessage()    {}

func (p *PrivateKey) Marshal() ([]byte, error) { return proto.Marshal((*privateKeyWire)(p)) }
func (p *PrivateKey) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*privateKeyWire)(p)) }

type signatureWire Signature

func (m *signatureWire) Reset()         { *m = signatureWire{} }
func (m *signatureWire) String() string { return proto.CompactTextString(m) }
func (*signatureWire) ProtoMessage()    {}

func (s *Signature) Marshal() ([]byte, error) { return proto.Marshal((*signatureWire)(s)) }
func (s *Signature) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*signatureWire)(s)) }
