package ballot

import (
	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/orm"
)

const (
	pathCreateBallot        = "ballot/create"
	pathGiveRightToVote     = "ballot/give_right_to_vote"
	pathDelegate            = "ballot/delegate"
	pathVote                = "ballot/vote"
	pathUpdateConfiguration = "ballot/update_configuration"
)

var _ weave.Msg = (*CreateBallotMsg)(nil)

// Path returns the routing path for this message.
func (CreateBallotMsg) Path() string {
	return pathCreateBallot
}

// Validate ensures the proposal list is not empty and every name is
// a valid identifier. Configurable limits are checked by the handler.
func (m *CreateBallotMsg) Validate() error {
	if len(m.ProposalNames) == 0 {
		return errors.Wrap(errors.ErrEmpty, "proposal names")
	}
	for i, name := range m.ProposalNames {
		if err := validateName(name, maxNameLength); err != nil {
			return errors.Wrapf(err, "proposal %d", i)
		}
	}
	return nil
}

var _ weave.Msg = (*GiveRightToVoteMsg)(nil)

// Path returns the routing path for this message.
func (GiveRightToVoteMsg) Path() string {
	return pathGiveRightToVote
}

// Validate ensures the ballot reference and the voter are present.
func (m *GiveRightToVoteMsg) Validate() error {
	if err := orm.ValidateSequence(m.BallotID); err != nil {
		return errors.Wrap(err, "ballot id")
	}
	if err := m.Voter.Validate(); err != nil {
		return errors.Wrap(err, "voter")
	}
	return nil
}

var _ weave.Msg = (*DelegateMsg)(nil)

// Path returns the routing path for this message.
func (DelegateMsg) Path() string {
	return pathDelegate
}

// Validate ensures the ballot reference and the delegate are present.
func (m *DelegateMsg) Validate() error {
	if err := orm.ValidateSequence(m.BallotID); err != nil {
		return errors.Wrap(err, "ballot id")
	}
	if err := m.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	return nil
}

var _ weave.Msg = (*VoteMsg)(nil)

// Path returns the routing path for this message.
func (VoteMsg) Path() string {
	return pathVote
}

// Validate ensures the ballot reference is present. The upper bound of the
// proposal index depends on the ballot and is checked by the handler.
func (m *VoteMsg) Validate() error {
	if err := orm.ValidateSequence(m.BallotID); err != nil {
		return errors.Wrap(err, "ballot id")
	}
	if m.Proposal < 0 {
		return errors.Wrap(errors.ErrInput, "negative proposal index")
	}
	return nil
}

var _ weave.Msg = (*UpdateConfigurationMsg)(nil)

// Path returns the routing path for this message.
func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfiguration
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
