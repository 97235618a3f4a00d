package ballot

import (
	"strconv"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/gconf"
	"github.com/iov-one/weave-ballot/orm"
	"github.com/iov-one/weave-ballot/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createBallotCost    int64 = 100
	giveRightToVoteCost int64 = 10
	delegateCost        int64 = 20
	voteCost            int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	ctrl := NewController()
	r.Handle(pathCreateBallot, CreateBallotHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathGiveRightToVote, GiveRightToVoteHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathDelegate, DelegateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathVote, VoteHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateConfiguration, gconf.NewUpdateConfigurationHandler(PackageName, &Configuration{}, auth))
}

// ballotTag marks the result with the ballot sequence number, in the same
// decimal form the command line accepts.
func ballotTag(ballotID []byte) common.KVPair {
	// IDs reaching a handler are valid sequences.
	n, _ := orm.DecodeSequence(ballotID)
	return common.KVPair{
		Key:   []byte("ballot"),
		Value: []byte(strconv.FormatInt(n, 10)),
	}
}

// signer returns the address of the main transaction signer.
func signer(ctx weave.Context, auth x.Authenticator) (weave.Address, error) {
	cond := x.MainSigner(ctx, auth)
	if cond == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return cond.Address(), nil
}

// CreateBallotHandler creates a new ballot owned by the main signer.
type CreateBallotHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = CreateBallotHandler{}

// Check validates the message against the configured limits and returns
// the cost of creating a ballot.
func (h CreateBallotHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createBallotCost}, nil
}

// Deliver stores the ballot with all its proposals. The ID of the new
// ballot is returned as the result data.
func (h CreateBallotHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, chair, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := weave.GetHeight(ctx)
	id, err := h.ctrl.storeBallot(db, chair, msg.ProposalNames, height)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: id,
		Tags: []common.KVPair{ballotTag(id)},
	}, nil
}

func (h CreateBallotHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateBallotMsg, weave.Address, error) {
	var msg CreateBallotMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	chair, err := signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if err := h.ctrl.checkCreateBallot(db, chair, msg.ProposalNames); err != nil {
		return nil, nil, err
	}
	return &msg, chair, nil
}

// GiveRightToVoteHandler grants the right to vote. The main signer must be
// the ballot chairperson.
type GiveRightToVoteHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = GiveRightToVoteHandler{}

func (h GiveRightToVoteHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: giveRightToVoteCost}, nil
}

func (h GiveRightToVoteHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, u, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.apply(db, u); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: []common.KVPair{ballotTag(msg.BallotID)}}, nil
}

// validate returns the message and the voter record granting the right.
func (h GiveRightToVoteHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*GiveRightToVoteMsg, *update, error) {
	var msg GiveRightToVoteMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	u, err := h.ctrl.checkGiveRightToVote(db, msg.BallotID, caller, msg.Voter)
	if err != nil {
		return nil, nil, err
	}
	return &msg, u, nil
}

// DelegateHandler forwards the main signer weight to another voter.
type DelegateHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = DelegateHandler{}

func (h DelegateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: delegateCost}, nil
}

// Deliver applies the delegation. The address of the final delegate is
// returned as the result data.
func (h DelegateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, u, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.apply(db, u); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: u.delegate.Address,
		Tags: []common.KVPair{ballotTag(msg.BallotID)},
	}, nil
}

// validate follows the delegation chain and returns the records the
// delegation changes.
func (h DelegateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*DelegateMsg, *update, error) {
	var msg DelegateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	u, err := h.ctrl.checkDelegate(db, msg.BallotID, caller, msg.To)
	if err != nil {
		return nil, nil, err
	}
	return &msg, u, nil
}

// VoteHandler casts the main signer vote.
type VoteHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = VoteHandler{}

func (h VoteHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: voteCost}, nil
}

func (h VoteHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, u, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.apply(db, u); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: []common.KVPair{ballotTag(msg.BallotID)}}, nil
}

func (h VoteHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*VoteMsg, *update, error) {
	var msg VoteMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	u, err := h.ctrl.checkVote(db, msg.BallotID, caller, msg.Proposal)
	if err != nil {
		return nil, nil, err
	}
	return &msg, u, nil
}
