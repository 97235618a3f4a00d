package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-ballot/crypto"
)

// StdSignature represents the signature, the identity of the signer
// (the Pubkey), and a sequence number to prevent replay attacks.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
	Sequence  int64             `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

// UserData is the state kept for every public key that signed a transaction.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

type stdSignatureWire StdSignature

func (m *stdSignatureWire) Reset()         { *m = stdSignatureWire{} }
func (m *stdSignatureWire) String() string { return proto.CompactTextString(m) }
func (*stdSignatureWire) ProtoMessage()    {}

func (m *StdSignature) Marshal() ([]byte, error) { return proto.Marshal((*stdSignatureWire)(m)) }
func (m *StdSignature) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*stdSignatureWire)(m)) }

// GetSequence returns the sequence or zero.
func (m *StdSignature) GetSequence() int64 {
	if m == nil {
		return 0
	}
	return m.Sequence
}

type userDataWire UserData

func (m *userDataWire) Reset()         { *m = userDataWire{} }
func (m *userDataWire) String() string { return proto.CompactTextString(m) }
func (*userDataWire) ProtoMessage()    {}

func (m *UserData) Marshal() ([]byte, error) { return proto.Marshal((*userDataWire)(m)) }
func (m *UserData) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*userDataWire)(m)) }
