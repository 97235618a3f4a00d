package ballot

import (
	"encoding/binary"
	"unicode/utf8"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/orm"
)

const (
	// maxNameLength is the hard limit of a proposal name. Names are
	// fixed 32 byte identifiers.
	maxNameLength = 32
)

var _ orm.CloneableData = (*Ballot)(nil)

// Validate ensures the ballot is valid.
func (b *Ballot) Validate() error {
	if err := b.Chairperson.Validate(); err != nil {
		return errors.Wrap(err, "chairperson")
	}
	if b.ProposalCount < 1 {
		return errors.Wrap(errors.ErrModel, "at least one proposal required")
	}
	if b.CreatedAt < 0 {
		return errors.Wrap(errors.ErrModel, "negative creation height")
	}
	return nil
}

// Copy makes a new Ballot with the same data.
func (b *Ballot) Copy() orm.CloneableData {
	return &Ballot{
		Chairperson:   b.Chairperson.Clone(),
		ProposalCount: b.ProposalCount,
		CreatedAt:     b.CreatedAt,
	}
}

var _ orm.CloneableData = (*Proposal)(nil)

// Validate ensures the proposal is valid.
func (p *Proposal) Validate() error {
	if err := orm.ValidateSequence(p.BallotID); err != nil {
		return errors.Wrap(err, "ballot id")
	}
	if p.Index < 0 {
		return errors.Wrap(errors.ErrModel, "negative index")
	}
	if err := validateName(p.Name, maxNameLength); err != nil {
		return err
	}
	if p.VoteCount < 0 {
		return errors.Wrap(errors.ErrModel, "negative vote count")
	}
	return nil
}

// Copy makes a new Proposal with the same data.
func (p *Proposal) Copy() orm.CloneableData {
	return &Proposal{
		BallotID:  copyBytes(p.BallotID),
		Index:     p.Index,
		Name:      p.Name,
		VoteCount: p.VoteCount,
	}
}

var _ orm.CloneableData = (*Voter)(nil)

// Validate ensures the voter is valid.
func (v *Voter) Validate() error {
	if err := orm.ValidateSequence(v.BallotID); err != nil {
		return errors.Wrap(err, "ballot id")
	}
	if err := v.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if v.Weight < 0 {
		return errors.Wrap(errors.ErrModel, "negative weight")
	}
	if v.Delegate != nil {
		if err := v.Delegate.Validate(); err != nil {
			return errors.Wrap(err, "delegate")
		}
		if !v.Voted {
			return errors.Wrap(errors.ErrModel, "delegation requires voted flag")
		}
	}
	if v.Vote < 0 {
		return errors.Wrap(errors.ErrModel, "negative vote")
	}
	return nil
}

// Copy makes a new Voter with the same data.
func (v *Voter) Copy() orm.CloneableData {
	return &Voter{
		BallotID: copyBytes(v.BallotID),
		Address:  v.Address.Clone(),
		Weight:   v.Weight,
		Voted:    v.Voted,
		Delegate: v.Delegate.Clone(),
		Vote:     v.Vote,
	}
}

var _ orm.CloneableData = (*Configuration)(nil)

// DefaultConfiguration is used when no configuration was stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxProposals:       64,
		MaxNameLength:      maxNameLength,
		MaxDelegationDepth: 64,
	}
}

// GetOwner returns the address allowed to update the configuration.
func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

// Validate ensures the configuration is valid.
func (c *Configuration) Validate() error {
	if c.Owner != nil {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if c.MaxProposals < 1 {
		return errors.Wrap(errors.ErrModel, "max proposals must be positive")
	}
	if c.MaxNameLength < 1 || c.MaxNameLength > maxNameLength {
		return errors.Wrapf(errors.ErrModel, "max name length must be between 1 and %d", maxNameLength)
	}
	if c.MaxDelegationDepth < 1 {
		return errors.Wrap(errors.ErrModel, "max delegation depth must be positive")
	}
	return nil
}

// Copy makes a new Configuration with the same data.
func (c *Configuration) Copy() orm.CloneableData {
	return &Configuration{
		Owner:              c.Owner.Clone(),
		MaxProposals:       c.MaxProposals,
		MaxNameLength:      c.MaxNameLength,
		MaxDelegationDepth: c.MaxDelegationDepth,
	}
}

func validateName(name string, max int) error {
	switch n := len(name); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "proposal name")
	case n > max:
		return errors.Wrapf(errors.ErrInput, "proposal name longer than %d bytes", max)
	}
	if !utf8.ValidString(name) {
		return errors.Wrap(errors.ErrInput, "proposal name is not valid utf8")
	}
	return nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// ProposalKey returns the primary key of a proposal. All proposals of
// a ballot share the ballot ID prefix and are sorted by their index.
func ProposalKey(ballotID []byte, index int32) []byte {
	key := make([]byte, 0, len(ballotID)+4)
	key = append(key, ballotID...)
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], uint32(index))
	return append(key, raw[:]...)
}

// VoterKey returns the primary key of a voter record.
func VoterKey(ballotID []byte, addr weave.Address) []byte {
	key := make([]byte, 0, len(ballotID)+len(addr))
	key = append(key, ballotID...)
	return append(key, addr...)
}

const (
	ballotBucketName   = "ballot"
	proposalBucketName = "proposal"
	voterBucketName    = "voter"
)

// NewBallotBucket returns a bucket for storing ballots, keyed by the
// sequence generated ID.
func NewBallotBucket() orm.ModelBucket {
	return orm.NewModelBucket(ballotBucketName, &Ballot{})
}

// NewProposalBucket returns a bucket for storing proposals.
func NewProposalBucket() orm.ModelBucket {
	return orm.NewModelBucket(proposalBucketName, &Proposal{})
}

// NewVoterBucket returns a bucket for storing voters.
func NewVoterBucket() orm.ModelBucket {
	return orm.NewModelBucket(voterBucketName, &Voter{})
}

var ballotSeq = orm.NewSequence(ballotBucketName, "id")
