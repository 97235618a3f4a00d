package app

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/x/ballot"
	"github.com/iov-one/weave-ballot/x/sigs"
)

// Tx is the transaction format of the ballot chain. Exactly one of the
// message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	CreateBallotMsg        *ballot.CreateBallotMsg        `protobuf:"bytes,20,opt,name=create_ballot_msg,json=createBallotMsg,proto3" json:"create_ballot_msg,omitempty"`
	GiveRightToVoteMsg     *ballot.GiveRightToVoteMsg     `protobuf:"bytes,21,opt,name=give_right_to_vote_msg,json=giveRightToVoteMsg,proto3" json:"give_right_to_vote_msg,omitempty"`
	DelegateMsg            *ballot.DelegateMsg            `protobuf:"bytes,22,opt,name=delegate_msg,json=delegateMsg,proto3" json:"delegate_msg,omitempty"`
	VoteMsg                *ballot.VoteMsg                `protobuf:"bytes,23,opt,name=vote_msg,json=voteMsg,proto3" json:"vote_msg,omitempty"`
	UpdateConfigurationMsg *ballot.UpdateConfigurationMsg `protobuf:"bytes,24,opt,name=update_configuration_msg,json=updateConfigurationMsg,proto3" json:"update_configuration_msg,omitempty"`
}

type txWire Tx

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }
func (*txWire) ProtoMessage()    {}

func (tx *Tx) Marshal() ([]byte, error) { return proto.Marshal((*txWire)(tx)) }
func (tx *Tx) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*txWire)(tx)) }

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	var found []weave.Msg
	if tx.CreateBallotMsg != nil {
		found = append(found, tx.CreateBallotMsg)
	}
	if tx.GiveRightToVoteMsg != nil {
		found = append(found, tx.GiveRightToVoteMsg)
	}
	if tx.DelegateMsg != nil {
		found = append(found, tx.DelegateMsg)
	}
	if tx.VoteMsg != nil {
		found = append(found, tx.VoteMsg)
	}
	if tx.UpdateConfigurationMsg != nil {
		found = append(found, tx.UpdateConfigurationMsg)
	}
	switch len(found) {
	case 0:
		return nil, errors.Wrap(errors.ErrState, "message payload is missing")
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d messages in a single transaction", len(found))
	}
}

// SetMsg assigns the message to the matching field. All other message
// fields are cleared.
func (tx *Tx) SetMsg(msg weave.Msg) error {
	tx.CreateBallotMsg = nil
	tx.GiveRightToVoteMsg = nil
	tx.DelegateMsg = nil
	tx.VoteMsg = nil
	tx.UpdateConfigurationMsg = nil

	switch m := msg.(type) {
	case *ballot.CreateBallotMsg:
		tx.CreateBallotMsg = m
	case *ballot.GiveRightToVoteMsg:
		tx.GiveRightToVoteMsg = m
	case *ballot.DelegateMsg:
		tx.DelegateMsg = m
	case *ballot.VoteMsg:
		tx.VoteMsg = m
	case *ballot.UpdateConfigurationMsg:
		tx.UpdateConfigurationMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = signatures
	return bz, err
}

// AddSignature appends the signature to the transaction.
func (tx *Tx) AddSignature(sig *sigs.StdSignature) {
	tx.Signatures = append(tx.Signatures, sig)
}
