package ballot

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/weave-ballot"
)

// Ballot is a single poll. It owns an ordered, fixed set of proposals and
// a chairperson that is the only one allowed to grant voting rights.
type Ballot struct {
	Chairperson   weave.Address `protobuf:"bytes,1,opt,name=chairperson,proto3,casttype=github.com/iov-one/weave-ballot.Address" json:"chairperson,omitempty"`
	ProposalCount int32         `protobuf:"varint,2,opt,name=proposal_count,json=proposalCount,proto3" json:"proposal_count,omitempty"`
	// CreatedAt is the block height at which the ballot was created.
	CreatedAt int64 `protobuf:"varint,3,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

// Proposal is an option a voter can choose. Proposals are indexed by their
// position in the ballot.
type Proposal struct {
	BallotID  []byte `protobuf:"bytes,1,opt,name=ballot_id,json=ballotId,proto3" json:"ballot_id,omitempty"`
	Index     int32  `protobuf:"varint,2,opt,name=index,proto3" json:"index"`
	Name      string `protobuf:"bytes,3,opt,name=name,proto3" json:"name,omitempty"`
	VoteCount int64  `protobuf:"varint,4,opt,name=vote_count,json=voteCount,proto3" json:"vote_count"`
}

// Voter is the per address state of a ballot participant. An address that
// was never stored is a zero value voter.
type Voter struct {
	BallotID []byte        `protobuf:"bytes,1,opt,name=ballot_id,json=ballotId,proto3" json:"ballot_id,omitempty"`
	Address  weave.Address `protobuf:"bytes,2,opt,name=address,proto3,casttype=github.com/iov-one/weave-ballot.Address" json:"address,omitempty"`
	Weight   int64         `protobuf:"varint,3,opt,name=weight,proto3" json:"weight"`
	Voted    bool          `protobuf:"varint,4,opt,name=voted,proto3" json:"voted"`
	Delegate weave.Address `protobuf:"bytes,5,opt,name=delegate,proto3,casttype=github.com/iov-one/weave-ballot.Address" json:"delegate,omitempty"`
	// Vote is the index of the chosen proposal. Meaningful only if the
	// voter has voted and did not delegate.
	Vote int32 `protobuf:"varint,6,opt,name=vote,proto3" json:"vote"`
}

// Winner is the result of the winning proposal query.
type Winner struct {
	Index     int32  `protobuf:"varint,1,opt,name=index,proto3" json:"index"`
	Name      string `protobuf:"bytes,2,opt,name=name,proto3" json:"name"`
	VoteCount int64  `protobuf:"varint,3,opt,name=vote_count,json=voteCount,proto3" json:"vote_count"`
}

// Configuration is the stored, owner updatable extension configuration.
type Configuration struct {
	// Owner is allowed to update the configuration.
	Owner weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-ballot.Address" json:"owner,omitempty"`
	// MaxProposals is the maximum number of proposals a ballot can hold.
	MaxProposals int32 `protobuf:"varint,2,opt,name=max_proposals,json=maxProposals,proto3" json:"max_proposals,omitempty"`
	// MaxNameLength is the maximum length of a proposal name in bytes.
	MaxNameLength int32 `protobuf:"varint,3,opt,name=max_name_length,json=maxNameLength,proto3" json:"max_name_length,omitempty"`
	// MaxDelegationDepth limits how many delegation hops are followed.
	MaxDelegationDepth int32 `protobuf:"varint,4,opt,name=max_delegation_depth,json=maxDelegationDepth,proto3" json:"max_delegation_depth,omitempty"`
}

// CreateBallotMsg creates a new ballot. The signer becomes the chairperson.
type CreateBallotMsg struct {
	ProposalNames []string `protobuf:"bytes,1,rep,name=proposal_names,json=proposalNames,proto3" json:"proposal_names,omitempty"`
}

// GiveRightToVoteMsg grants a voting weight of one to the voter.
type GiveRightToVoteMsg struct {
	BallotID []byte        `protobuf:"bytes,1,opt,name=ballot_id,json=ballotId,proto3" json:"ballot_id,omitempty"`
	Voter    weave.Address `protobuf:"bytes,2,opt,name=voter,proto3,casttype=github.com/iov-one/weave-ballot.Address" json:"voter,omitempty"`
}

// DelegateMsg forwards the signer weight to another voter.
type DelegateMsg struct {
	BallotID []byte        `protobuf:"bytes,1,opt,name=ballot_id,json=ballotId,proto3" json:"ballot_id,omitempty"`
	To       weave.Address `protobuf:"bytes,2,opt,name=to,proto3,casttype=github.com/iov-one/weave-ballot.Address" json:"to,omitempty"`
}

// VoteMsg casts the signer weight on a proposal.
type VoteMsg struct {
	BallotID []byte `protobuf:"bytes,1,opt,name=ballot_id,json=ballotId,proto3" json:"ballot_id,omitempty"`
	Proposal int32  `protobuf:"varint,2,opt,name=proposal,proto3" json:"proposal"`
}

// UpdateConfigurationMsg changes all non zero fields of the configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

// Protobuf encoding goes through the wire types below. They share the
// memory layout of the public types but do not carry the Marshal and
// Unmarshal methods, so the proto package uses reflection to encode them.

type ballotWire Ballot

func (m *ballotWire) Reset()         { *m = ballotWire{} }
func (m *ballotWire) String() string { return proto.CompactTextString(m) }
func (*ballotWire) ProtoMessage()    {}

func (m *Ballot) Marshal() ([]byte, error) { return proto.Marshal((*ballotWire)(m)) }
func (m *Ballot) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*ballotWire)(m)) }

type proposalWire Proposal

func (m *proposalWire) Reset()         { *m = proposalWire{} }
func (m *proposalWire) String() string { return proto.CompactTextString(m) }
func (*proposalWire) ProtoMessage()    {}

func (m *Proposal) Marshal() ([]byte, error) { return proto.Marshal((*proposalWire)(m)) }
func (m *Proposal) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*proposalWire)(m)) }

type voterWire Voter

func (m *voterWire) Reset()         { *m = voterWire{} }
func (m *voterWire) String() string { return proto.CompactTextString(m) }
func (*voterWire) ProtoMessage()    {}

func (m *Voter) Marshal() ([]byte, error) { return proto.Marshal((*voterWire)(m)) }
func (m *Voter) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*voterWire)(m)) }

type winnerWire Winner

func (m *winnerWire) Reset()         { *m = winnerWire{} }
func (m *winnerWire) String() string { return proto.CompactTextString(m) }
func (*winnerWire) ProtoMessage()    {}

func (m *Winner) Marshal() ([]byte, error) { return proto.Marshal((*winnerWire)(m)) }
func (m *Winner) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*winnerWire)(m)) }

type configurationWire Configuration

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}

func (m *Configuration) Marshal() ([]byte, error) { return proto.Marshal((*configurationWire)(m)) }
func (m *Configuration) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*configurationWire)(m))
}

type createBallotMsgWire CreateBallotMsg

func (m *createBallotMsgWire) Reset()         { *m = createBallotMsgWire{} }
func (m *createBallotMsgWire) String() string { return proto.CompactTextString(m) }
func (*createBallotMsgWire) ProtoMessage()    {}

func (m *CreateBallotMsg) Marshal() ([]byte, error) { return proto.Marshal((*createBallotMsgWire)(m)) }
func (m *CreateBallotMsg) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*createBallotMsgWire)(m))
}

type giveRightToVoteMsgWire GiveRightToVoteMsg

func (m *giveRightToVoteMsgWire) Reset()         { *m = giveRightToVoteMsgWire{} }
func (m *giveRightToVoteMsgWire) String() string { return proto.CompactTextString(m) }
func (*giveRightToVoteMsgWire) ProtoMessage()    {}

func (m *GiveRightToVoteMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*giveRightToVoteMsgWire)(m))
}
func (m *GiveRightToVoteMsg) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*giveRightToVoteMsgWire)(m))
}

type delegateMsgWire DelegateMsg

func (m *delegateMsgWire) Reset()         { *m = delegateMsgWire{} }
func (m *delegateMsgWire) String() string { return proto.CompactTextString(m) }
func (*delegateMsgWire) ProtoMessage()    {}

func (m *DelegateMsg) Marshal() ([]byte, error) { return proto.Marshal((*delegateMsgWire)(m)) }
func (m *DelegateMsg) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*delegateMsgWire)(m)) }

type voteMsgWire VoteMsg

func (m *voteMsgWire) Reset()         { *m = voteMsgWire{} }
func (m *voteMsgWire) String() string { return proto.CompactTextString(m) }
func (*voteMsgWire) ProtoMessage()    {}

func (m *VoteMsg) Marshal() ([]byte, error) { return proto.Marshal((*voteMsgWire)(m)) }
func (m *VoteMsg) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*voteMsgWire)(m)) }

type updateConfigurationMsgWire UpdateConfigurationMsg

func (m *updateConfigurationMsgWire) Reset()         { *m = updateConfigurationMsgWire{} }
func (m *updateConfigurationMsgWire) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgWire) ProtoMessage()    {}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgWire)(m))
}
func (m *UpdateConfigurationMsg) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*updateConfigurationMsgWire)(m))
}
