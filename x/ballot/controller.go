package ballot

import (
	"math"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/gconf"
	"github.com/iov-one/weave-ballot/orm"
)

// PackageName is the name under which the configuration is stored.
const PackageName = "ballot"

// Controller implements the ballot state machine on top of the ballot,
// proposal and voter buckets.
//
// Every state changing method either succeeds or returns an error without
// writing anything. All preconditions are verified before the first write.
type Controller struct {
	ballots   orm.ModelBucket
	proposals orm.ModelBucket
	voters    orm.ModelBucket
}

// NewController returns a controller using the default buckets.
func NewController() Controller {
	return Controller{
		ballots:   NewBallotBucket(),
		proposals: NewProposalBucket(),
		voters:    NewVoterBucket(),
	}
}

// Configuration returns the stored configuration. If none was stored, the
// default configuration is returned.
func (c Controller) Configuration(db weave.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, PackageName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		conf = DefaultConfiguration()
		return &conf, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}

// CreateBallot stores a new ballot with a proposal for every name, in the
// given order. The chairperson is granted a voting weight of one.
// The ID of the created ballot is returned.
func (c Controller) CreateBallot(db weave.KVStore, chairperson weave.Address, names []string, height int64) ([]byte, error) {
	if err := c.checkCreateBallot(db, chairperson, names); err != nil {
		return nil, err
	}
	return c.storeBallot(db, chairperson, names, height)
}

// storeBallot writes a ballot that passed checkCreateBallot.
func (c Controller) storeBallot(db weave.KVStore, chairperson weave.Address, names []string, height int64) ([]byte, error) {
	id, err := ballotSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire ballot id")
	}
	ballot := &Ballot{
		Chairperson:   chairperson,
		ProposalCount: int32(len(names)),
		CreatedAt:     height,
	}
	if err := c.ballots.Put(db, id, ballot); err != nil {
		return nil, errors.Wrap(err, "cannot store ballot")
	}
	for i, name := range names {
		p := &Proposal{
			BallotID: id,
			Index:    int32(i),
			Name:     name,
		}
		if err := c.proposals.Put(db, ProposalKey(id, p.Index), p); err != nil {
			return nil, errors.Wrapf(err, "cannot store proposal %d", i)
		}
	}
	chair := &Voter{
		BallotID: id,
		Address:  chairperson,
		Weight:   1,
	}
	if err := c.voters.Put(db, VoterKey(id, chairperson), chair); err != nil {
		return nil, errors.Wrap(err, "cannot store chairperson")
	}
	return id, nil
}

// checkCreateBallot verifies the chairperson and the proposal names against
// the configured limits.
func (c Controller) checkCreateBallot(db weave.ReadOnlyKVStore, chairperson weave.Address, names []string) error {
	if err := chairperson.Validate(); err != nil {
		return errors.Wrap(err, "chairperson")
	}
	conf, err := c.Configuration(db)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return errors.Wrap(errors.ErrEmpty, "proposal names")
	}
	if len(names) > int(conf.MaxProposals) {
		return errors.Wrapf(errors.ErrInput, "too many proposals, max %d", conf.MaxProposals)
	}
	for i, name := range names {
		if err := validateName(name, int(conf.MaxNameLength)); err != nil {
			return errors.Wrapf(err, "proposal %d", i)
		}
	}
	return nil
}

// Ballot returns the ballot with the given ID.
func (c Controller) Ballot(db weave.ReadOnlyKVStore, ballotID []byte) (*Ballot, error) {
	var b Ballot
	if err := c.ballots.One(db, ballotID, &b); err != nil {
		return nil, errors.Wrap(err, "ballot")
	}
	return &b, nil
}

// Chairperson returns the address of the ballot chairperson.
func (c Controller) Chairperson(db weave.ReadOnlyKVStore, ballotID []byte) (weave.Address, error) {
	b, err := c.Ballot(db, ballotID)
	if err != nil {
		return nil, err
	}
	return b.Chairperson, nil
}

// Proposal returns the proposal at the given index.
func (c Controller) Proposal(db weave.ReadOnlyKVStore, ballotID []byte, index int32) (*Proposal, error) {
	b, err := c.Ballot(db, ballotID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= b.ProposalCount {
		return nil, errors.Wrapf(errors.ErrInput, "proposal index %d out of range [0, %d)", index, b.ProposalCount)
	}
	var p Proposal
	if err := c.proposals.One(db, ProposalKey(ballotID, index), &p); err != nil {
		return nil, errors.Wrapf(err, "proposal %d", index)
	}
	return &p, nil
}

// Proposals returns all proposals of a ballot ordered by their index.
func (c Controller) Proposals(db weave.ReadOnlyKVStore, ballotID []byte) ([]*Proposal, error) {
	b, err := c.Ballot(db, ballotID)
	if err != nil {
		return nil, err
	}
	var proposals []*Proposal
	if _, err := c.proposals.ByPrefix(db, ballotID, &proposals); err != nil {
		return nil, errors.Wrap(err, "proposals")
	}
	if len(proposals) != int(b.ProposalCount) {
		return nil, errors.Wrapf(errors.ErrState, "ballot declares %d proposals, found %d", b.ProposalCount, len(proposals))
	}
	return proposals, nil
}

// Voter returns the voter state of the given address. An address that
// never interacted with the ballot is returned as a zero value voter.
func (c Controller) Voter(db weave.ReadOnlyKVStore, ballotID []byte, addr weave.Address) (*Voter, error) {
	if err := c.ballots.Has(db, ballotID); err != nil {
		return nil, errors.Wrap(err, "ballot")
	}
	return c.loadVoter(db, ballotID, addr)
}

func (c Controller) loadVoter(db weave.ReadOnlyKVStore, ballotID []byte, addr weave.Address) (*Voter, error) {
	var v Voter
	switch err := c.voters.One(db, VoterKey(ballotID, addr), &v); {
	case err == nil:
		return &v, nil
	case errors.ErrNotFound.Is(err):
		return &Voter{BallotID: ballotID, Address: addr}, nil
	default:
		return nil, errors.Wrapf(err, "voter %s", addr)
	}
}

// update is the result of a validated state transition: the records to
// store, already modified. Nothing is written until apply is called.
type update struct {
	proposal *Proposal
	voters   []*Voter
	// delegate is the final delegate of a delegation.
	delegate *Voter
}

// apply stores all records of the update.
func (c Controller) apply(db weave.KVStore, u *update) error {
	if p := u.proposal; p != nil {
		if err := c.proposals.Put(db, ProposalKey(p.BallotID, p.Index), p); err != nil {
			return errors.Wrap(err, "cannot store proposal")
		}
	}
	for _, v := range u.voters {
		if err := c.voters.Put(db, VoterKey(v.BallotID, v.Address), v); err != nil {
			return errors.Wrap(err, "cannot store voter")
		}
	}
	return nil
}

// GiveRightToVote sets the voter weight to one. Only the chairperson can
// grant the right, and only to voters that did not vote and have no weight.
func (c Controller) GiveRightToVote(db weave.KVStore, ballotID []byte, caller, voter weave.Address) error {
	u, err := c.checkGiveRightToVote(db, ballotID, caller, voter)
	if err != nil {
		return err
	}
	return c.apply(db, u)
}

func (c Controller) checkGiveRightToVote(db weave.ReadOnlyKVStore, ballotID []byte, caller, voter weave.Address) (*update, error) {
	b, err := c.Ballot(db, ballotID)
	if err != nil {
		return nil, err
	}
	if !b.Chairperson.Equals(caller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the chairperson can give right to vote")
	}
	v, err := c.loadVoter(db, ballotID, voter)
	if err != nil {
		return nil, err
	}
	if v.Voted {
		return nil, errors.Wrap(errors.ErrState, "the voter already voted")
	}
	if v.Weight != 0 {
		return nil, errors.Wrap(errors.ErrState, "the voter already has right to vote")
	}
	v.Weight = 1
	return &update{voters: []*Voter{v}}, nil
}

// Delegate forwards the caller weight to the end of the delegation chain
// starting at the given address. If the final delegate already voted, the
// weight is added to the chosen proposal. Otherwise it is added to the
// final delegate weight. The final delegate is returned.
func (c Controller) Delegate(db weave.KVStore, ballotID []byte, caller, to weave.Address) (*Voter, error) {
	u, err := c.checkDelegate(db, ballotID, caller, to)
	if err != nil {
		return nil, err
	}
	if err := c.apply(db, u); err != nil {
		return nil, err
	}
	return u.delegate, nil
}

func (c Controller) checkDelegate(db weave.ReadOnlyKVStore, ballotID []byte, caller, to weave.Address) (*update, error) {
	if _, err := c.Ballot(db, ballotID); err != nil {
		return nil, err
	}
	conf, err := c.Configuration(db)
	if err != nil {
		return nil, err
	}
	sender, err := c.loadVoter(db, ballotID, caller)
	if err != nil {
		return nil, err
	}
	if sender.Weight == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no right to vote")
	}
	if sender.Voted {
		return nil, errors.Wrap(errors.ErrState, "already voted")
	}
	if to.Equals(caller) {
		return nil, errors.Wrap(errors.ErrInput, "self-delegation is disallowed")
	}

	final, err := c.followDelegation(db, ballotID, caller, to, int(conf.MaxDelegationDepth))
	if err != nil {
		return nil, err
	}
	if final.Weight < 1 {
		return nil, errors.Wrap(errors.ErrState, "the delegate has no right to vote")
	}

	sender.Voted = true
	sender.Delegate = final.Address
	u := &update{delegate: final}

	if final.Voted {
		p, err := c.Proposal(db, ballotID, final.Vote)
		if err != nil {
			return nil, err
		}
		if p.VoteCount, err = addWeight(p.VoteCount, sender.Weight); err != nil {
			return nil, errors.Wrap(err, "vote count")
		}
		u.proposal = p
	} else {
		if final.Weight, err = addWeight(final.Weight, sender.Weight); err != nil {
			return nil, errors.Wrap(err, "delegate weight")
		}
		u.voters = append(u.voters, final)
	}
	u.voters = append(u.voters, sender)
	return u, nil
}

// followDelegation walks the delegation chain starting at the given
// address and returns the first voter that did not delegate. Visiting an
// address twice, including the caller, is a cycle.
func (c Controller) followDelegation(db weave.ReadOnlyKVStore, ballotID []byte, caller, to weave.Address, maxDepth int) (*Voter, error) {
	visited := map[string]struct{}{string(caller): {}}
	target := to
	for hops := 0; ; hops++ {
		if _, ok := visited[string(target)]; ok {
			return nil, errors.Wrapf(ErrCycle, "found loop in delegation at %s", target)
		}
		if hops >= maxDepth {
			return nil, errors.Wrapf(errors.ErrInput, "delegation chain longer than %d", maxDepth)
		}
		visited[string(target)] = struct{}{}

		v, err := c.loadVoter(db, ballotID, target)
		if err != nil {
			return nil, err
		}
		if v.Delegate == nil {
			return v, nil
		}
		target = v.Delegate
	}
}

// Vote adds the caller weight to the proposal at the given index.
func (c Controller) Vote(db weave.KVStore, ballotID []byte, caller weave.Address, index int32) error {
	u, err := c.checkVote(db, ballotID, caller, index)
	if err != nil {
		return err
	}
	return c.apply(db, u)
}

func (c Controller) checkVote(db weave.ReadOnlyKVStore, ballotID []byte, caller weave.Address, index int32) (*update, error) {
	sender, err := c.Voter(db, ballotID, caller)
	if err != nil {
		return nil, err
	}
	if sender.Weight == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "has no right to vote")
	}
	if sender.Voted {
		return nil, errors.Wrap(errors.ErrState, "already voted")
	}
	p, err := c.Proposal(db, ballotID, index)
	if err != nil {
		return nil, err
	}
	if p.VoteCount, err = addWeight(p.VoteCount, sender.Weight); err != nil {
		return nil, errors.Wrap(err, "vote count")
	}
	sender.Voted = true
	sender.Vote = index
	return &update{proposal: p, voters: []*Voter{sender}}, nil
}

// WinningProposal returns the proposal with the highest vote count. Among
// proposals with equal count the one with the lowest index wins, so before
// any vote is cast the first proposal is returned.
func (c Controller) WinningProposal(db weave.ReadOnlyKVStore, ballotID []byte) (*Proposal, error) {
	proposals, err := c.Proposals(db, ballotID)
	if err != nil {
		return nil, err
	}
	winner := proposals[0]
	for _, p := range proposals[1:] {
		if p.VoteCount > winner.VoteCount {
			winner = p
		}
	}
	return winner, nil
}

// WinnerName returns the name of the winning proposal.
func (c Controller) WinnerName(db weave.ReadOnlyKVStore, ballotID []byte) (string, error) {
	p, err := c.WinningProposal(db, ballotID)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func addWeight(a, b int64) (int64, error) {
	if b > math.MaxInt64-a {
		return 0, errors.ErrOverflow.Newf("%d + %d", a, b)
	}
	return a + b, nil
}
