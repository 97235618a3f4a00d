package app_test

import (
	"testing"
	"time"

	weave "github.com/iov-one/weave-ballot"
	weaveApp "github.com/iov-one/weave-ballot/app"
	ballotd "github.com/iov-one/weave-ballot/cmd/ballotd/app"
	"github.com/iov-one/weave-ballot/crypto"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/weavetest"
	"github.com/iov-one/weave-ballot/weavetest/assert"
	"github.com/iov-one/weave-ballot/x/ballot"
	"github.com/iov-one/weave-ballot/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "test-chain-ballot"

type testChain struct {
	t      testing.TB
	app    abci.Application
	height int64
}

func newTestChain(t testing.TB, chair *crypto.PrivateKey, proposals []string) *testChain {
	t.Helper()

	state, err := ballotd.GenInitOptions(chair.PublicKey().Address(), proposals)
	assert.Nil(t, err)
	myApp, err := ballotd.GenerateApp("", log.NewNopLogger(), true)
	assert.Nil(t, err)

	myApp.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: state})
	myApp.Commit()
	return &testChain{t: t, app: myApp, height: 1}
}

// deliver signs the message, checks and delivers it in its own block.
func (c *testChain) deliver(signer *crypto.PrivateKey, msg weave.Msg) abci.ResponseDeliverTx {
	c.t.Helper()

	tx := &ballotd.Tx{}
	assert.Nil(c.t, tx.SetMsg(msg))
	sig, err := sigs.SignTx(signer, tx, testChainID, c.nextSequence(signer))
	assert.Nil(c.t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := tx.Marshal()
	assert.Nil(c.t, err)

	c.height++
	header := abci.Header{Height: c.height, Time: time.Now()}
	c.app.BeginBlock(abci.RequestBeginBlock{Header: header})
	c.app.CheckTx(raw)
	dres := c.app.DeliverTx(raw)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return dres
}

// nextSequence returns the nonce stored for the signer. A delivered
// transaction increments it even if the message itself fails.
func (c *testChain) nextSequence(signer *crypto.PrivateKey) int64 {
	c.t.Helper()

	var user sigs.UserData
	switch err := c.query("/auth", signer.PublicKey().Address(), &user); {
	case err == nil:
		return user.Sequence
	case errors.ErrNotFound.Is(err):
		return 0
	default:
		c.t.Fatalf("cannot query sequence: %s", err)
		return 0
	}
}

func (c *testChain) query(path string, data []byte, dst weave.Persistent) error {
	c.t.Helper()

	res := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return err
	}
	return weaveApp.UnmarshalOneResult(res.Value, dst)
}

func TestBallotLifecycle(t *testing.T) {
	chair := crypto.GenPrivKeyEd25519()
	voters := []*crypto.PrivateKey{
		crypto.GenPrivKeyEd25519(),
		crypto.GenPrivKeyEd25519(),
		crypto.GenPrivKeyEd25519(),
	}
	chain := newTestChain(t, chair, nil)

	dres := chain.deliver(chair, &ballot.CreateBallotMsg{
		ProposalNames: []string{"Proposal 1", "Proposal 2", "Proposal 3"},
	})
	assert.Equal(t, uint32(0), dres.Code)
	ballotID := dres.Data
	assert.Equal(t, weavetest.SequenceID(1), ballotID)

	for _, v := range voters {
		dres := chain.deliver(chair, &ballot.GiveRightToVoteMsg{
			BallotID: ballotID,
			Voter:    v.PublicKey().Address(),
		})
		assert.Equal(t, uint32(0), dres.Code)
	}

	// voter 0 delegates to voter 1, who then votes with the weight of two
	dres = chain.deliver(voters[0], &ballot.DelegateMsg{
		BallotID: ballotID,
		To:       voters[1].PublicKey().Address(),
	})
	assert.Equal(t, uint32(0), dres.Code)
	assert.Equal(t, []byte(voters[1].PublicKey().Address()), dres.Data)

	dres = chain.deliver(voters[1], &ballot.VoteMsg{BallotID: ballotID, Proposal: 1})
	assert.Equal(t, uint32(0), dres.Code)
	dres = chain.deliver(voters[2], &ballot.VoteMsg{BallotID: ballotID, Proposal: 0})
	assert.Equal(t, uint32(0), dres.Code)
	dres = chain.deliver(chair, &ballot.VoteMsg{BallotID: ballotID, Proposal: 2})
	assert.Equal(t, uint32(0), dres.Code)

	// voting twice is rejected
	dres = chain.deliver(chair, &ballot.VoteMsg{BallotID: ballotID, Proposal: 0})
	assert.Equal(t, errors.ErrState.ABCICode(), dres.Code)

	var winner ballot.Winner
	assert.Nil(t, chain.query("/ballots/winner", ballotID, &winner))
	assert.Equal(t, "Proposal 2", winner.Name)
	assert.Equal(t, int64(2), winner.VoteCount)

	var voter ballot.Voter
	key := append(append([]byte{}, ballotID...), voters[0].PublicKey().Address()...)
	assert.Nil(t, chain.query("/voters", key, &voter))
	assert.Equal(t, true, voter.Voted)
	assert.Equal(t, voters[1].PublicKey().Address(), voter.Delegate)

	var p ballot.Proposal
	assert.Nil(t, chain.query("/proposals", ballot.ProposalKey(ballotID, 0), &p))
	assert.Equal(t, int64(1), p.VoteCount)
}

func TestGenesisBallot(t *testing.T) {
	chair := crypto.GenPrivKeyEd25519()
	chain := newTestChain(t, chair, []string{"yes", "no"})

	var b ballot.Ballot
	assert.Nil(t, chain.query("/ballots", weavetest.SequenceID(1), &b))
	assert.Equal(t, chair.PublicKey().Address(), b.Chairperson)
	assert.Equal(t, int32(2), b.ProposalCount)

	// no votes were cast so the first proposal wins
	var winner ballot.Winner
	assert.Nil(t, chain.query("/ballots/winner", weavetest.SequenceID(1), &winner))
	assert.Equal(t, "yes", winner.Name)
	assert.Equal(t, int64(0), winner.VoteCount)

	err := chain.query("/ballots/winner", weavetest.SequenceID(2), &winner)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestUnauthorizedRightToVote(t *testing.T) {
	chair := crypto.GenPrivKeyEd25519()
	stranger := crypto.GenPrivKeyEd25519()
	chain := newTestChain(t, chair, []string{"a", "b"})

	dres := chain.deliver(stranger, &ballot.GiveRightToVoteMsg{
		BallotID: weavetest.SequenceID(1),
		Voter:    stranger.PublicKey().Address(),
	})
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), dres.Code)
}

func TestUpdateConfiguration(t *testing.T) {
	owner := crypto.GenPrivKeyEd25519()
	chain := newTestChain(t, owner, nil)

	dres := chain.deliver(owner, &ballot.UpdateConfigurationMsg{
		Patch: &ballot.Configuration{MaxProposals: 2},
	})
	assert.Equal(t, uint32(0), dres.Code)

	dres = chain.deliver(owner, &ballot.CreateBallotMsg{
		ProposalNames: []string{"a", "b", "c"},
	})
	assert.Equal(t, errors.ErrInput.ABCICode(), dres.Code)
}
