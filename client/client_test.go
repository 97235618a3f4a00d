package client_test

import (
	"context"
	"testing"
	"time"

	weave "github.com/iov-one/weave-ballot"
	ballotd "github.com/iov-one/weave-ballot/cmd/ballotd/app"
	"github.com/iov-one/weave-ballot/client"
	"github.com/iov-one/weave-ballot/crypto"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/weavetest/assert"
	"github.com/iov-one/weave-ballot/x/ballot"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/rpc/client/mock"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const testChainID = "test-chain-client"

func newTx() client.SignableTx {
	return &ballotd.Tx{}
}

func newApp(t *testing.T, owner weave.Address) abci.Application {
	t.Helper()

	myApp, err := ballotd.GenerateApp("", log.NewNopLogger(), true)
	assert.Nil(t, err)
	state, err := ballotd.GenInitOptions(owner, nil)
	assert.Nil(t, err)
	myApp.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: state})
	myApp.Commit()
	return myApp
}

func TestLocalClientBallot(t *testing.T) {
	chair := crypto.GenPrivKeyEd25519()
	alice := crypto.GenPrivKeyEd25519()
	bob := crypto.GenPrivKeyEd25519()

	conn := client.NewLocalClient(newApp(t, chair.PublicKey().Address()))
	bc := client.NewBallotClient(conn, testChainID, newTx)
	ctx := context.Background()

	id, err := bc.Deploy(ctx, chair, []string{"tea", "coffee"})
	assert.Nil(t, err)

	chairAddr, err := bc.Chairperson(id)
	assert.Nil(t, err)
	assert.Equal(t, chair.PublicKey().Address(), chairAddr)

	assert.Nil(t, bc.GiveRightToVote(ctx, chair, id, alice.PublicKey().Address()))
	assert.Nil(t, bc.GiveRightToVote(ctx, chair, id, bob.PublicKey().Address()))

	// only the chairperson can give the right to vote
	err = bc.GiveRightToVote(ctx, alice, id, alice.PublicKey().Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)

	final, err := bc.Delegate(ctx, alice, id, bob.PublicKey().Address())
	assert.Nil(t, err)
	assert.Equal(t, bob.PublicKey().Address(), final)

	assert.Nil(t, bc.Vote(ctx, bob, id, 1))

	err = bc.Vote(ctx, alice, id, 0)
	assert.IsErr(t, errors.ErrState, err)

	name, err := bc.WinnerName(id)
	assert.Nil(t, err)
	assert.Equal(t, "coffee", name)

	proposals, err := bc.Proposals(id)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(proposals))
	assert.Equal(t, int64(0), proposals[0].VoteCount)
	assert.Equal(t, int64(2), proposals[1].VoteCount)

	v, err := bc.Voter(id, alice.PublicKey().Address())
	assert.Nil(t, err)
	assert.Equal(t, true, v.Voted)
	assert.Equal(t, bob.PublicKey().Address(), v.Delegate)

	stranger := crypto.GenPrivKeyEd25519().PublicKey().Address()
	v, err = bc.Voter(id, stranger)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), v.Weight)
	assert.Equal(t, false, v.Voted)
}

func TestLocalClientCancelledContext(t *testing.T) {
	chair := crypto.GenPrivKeyEd25519()
	conn := client.NewLocalClient(newApp(t, chair.PublicKey().Address()))
	bc := client.NewBallotClient(conn, testChainID, newTx)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bc.Deploy(ctx, chair, []string{"a"})
	assert.IsErr(t, errors.ErrNetwork, err)
}

func TestInvalidMessageIsNotSubmitted(t *testing.T) {
	chair := crypto.GenPrivKeyEd25519()
	conn := client.NewLocalClient(newApp(t, chair.PublicKey().Address()))
	bc := client.NewBallotClient(conn, testChainID, newTx)

	_, err := bc.Deploy(context.Background(), chair, nil)
	if err == nil {
		t.Fatal("want an error for a ballot without proposals")
	}
}

// blockApp is a mock node connection that commits a block for every
// broadcasted transaction.
type blockApp struct {
	mock.ABCIApp
	height int64
}

func (b *blockApp) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	res := ctypes.ResultBroadcastTxCommit{}
	res.CheckTx = b.App.CheckTx(tx)
	if res.CheckTx.IsErr() {
		return &res, nil
	}
	b.height++
	b.App.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: b.height, Time: time.Now()},
	})
	res.DeliverTx = b.App.DeliverTx(tx)
	b.App.EndBlock(abci.RequestEndBlock{Height: b.height})
	b.App.Commit()
	res.Height = b.height
	return &res, nil
}

func TestRPCClientBallot(t *testing.T) {
	chair := crypto.GenPrivKeyEd25519()
	conn := client.NewRPCClient(&blockApp{
		ABCIApp: mock.ABCIApp{App: newApp(t, chair.PublicKey().Address())},
		height:  1,
	})
	bc := client.NewBallotClient(conn, testChainID, newTx)
	ctx := context.Background()

	id, err := bc.Deploy(ctx, chair, []string{"north", "south", "east"})
	assert.Nil(t, err)
	assert.Nil(t, bc.Vote(ctx, chair, id, 2))

	name, err := bc.WinnerName(id)
	assert.Nil(t, err)
	assert.Equal(t, "east", name)

	p, err := bc.Proposal(id, 2)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), p.VoteCount)

	_, err = bc.Proposal(id, 3)
	assert.IsErr(t, errors.ErrInput, err)

	err = bc.UpdateConfiguration(ctx, chair, &ballot.Configuration{MaxProposals: 1})
	assert.Nil(t, err)
	_, err = bc.Deploy(ctx, chair, []string{"north", "south"})
	assert.IsErr(t, errors.ErrInput, err)
}
