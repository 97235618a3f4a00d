package client

import (
	"context"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/app"
	"github.com/iov-one/weave-ballot/crypto"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/x/ballot"
	"github.com/iov-one/weave-ballot/x/sigs"
)

// SignableTx is a transaction that can carry a single ballot message and be
// signed by the client.
type SignableTx interface {
	weave.Tx
	sigs.SignedTx
	SetMsg(weave.Msg) error
	AddSignature(*sigs.StdSignature)
}

// BallotClient exposes the ballot operations of a chain.
type BallotClient struct {
	conn    Client
	chainID string
	newTx   func() SignableTx
	ctrl    ballot.Controller
}

// NewBallotClient returns a client that builds transactions using newTx and
// signs them for the given chain.
func NewBallotClient(conn Client, chainID string, newTx func() SignableTx) *BallotClient {
	return &BallotClient{
		conn:    conn,
		chainID: chainID,
		newTx:   newTx,
		ctrl:    ballot.NewController(),
	}
}

// store returns a read only view of the latest committed state.
func (b *BallotClient) store() weave.ReadOnlyKVStore {
	return app.NewABCIStore(b.conn)
}

// submit signs a transaction carrying msg with the next sequence of the
// signer and commits it.
func (b *BallotClient) submit(ctx context.Context, signer *crypto.PrivateKey, msg weave.Msg) (*CommitResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	tx := b.newTx()
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	seq, err := sigs.NextSequence(b.store(), signer.PublicKey())
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	sig, err := sigs.SignTx(signer, tx, b.chainID, seq)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	tx.AddSignature(sig)
	return b.conn.CommitTx(ctx, tx)
}

// Deploy creates a new ballot with the signer as the chairperson and
// returns its ID.
func (b *BallotClient) Deploy(ctx context.Context, signer *crypto.PrivateKey, proposalNames []string) ([]byte, error) {
	res, err := b.submit(ctx, signer, &ballot.CreateBallotMsg{ProposalNames: proposalNames})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// GiveRightToVote grants a vote to the voter. Only the chairperson can sign
// it.
func (b *BallotClient) GiveRightToVote(ctx context.Context, signer *crypto.PrivateKey, ballotID []byte, voter weave.Address) error {
	_, err := b.submit(ctx, signer, &ballot.GiveRightToVoteMsg{BallotID: ballotID, Voter: voter})
	return err
}

// Delegate hands over the vote of the signer and returns the address at the
// end of the delegation chain.
func (b *BallotClient) Delegate(ctx context.Context, signer *crypto.PrivateKey, ballotID []byte, to weave.Address) (weave.Address, error) {
	res, err := b.submit(ctx, signer, &ballot.DelegateMsg{BallotID: ballotID, To: to})
	if err != nil {
		return nil, err
	}
	return weave.Address(res.Data), nil
}

// Vote casts the signer vote for the proposal with the given index.
func (b *BallotClient) Vote(ctx context.Context, signer *crypto.PrivateKey, ballotID []byte, proposal int32) error {
	_, err := b.submit(ctx, signer, &ballot.VoteMsg{BallotID: ballotID, Proposal: proposal})
	return err
}

// UpdateConfiguration applies the non zero fields of the patch. It must be
// signed by the configuration owner.
func (b *BallotClient) UpdateConfiguration(ctx context.Context, signer *crypto.PrivateKey, patch *ballot.Configuration) error {
	_, err := b.submit(ctx, signer, &ballot.UpdateConfigurationMsg{Patch: patch})
	return err
}

// Chairperson returns the address of the ballot creator.
func (b *BallotClient) Chairperson(ballotID []byte) (weave.Address, error) {
	return b.ctrl.Chairperson(b.store(), ballotID)
}

// Proposal returns a single proposal of the ballot.
func (b *BallotClient) Proposal(ballotID []byte, index int32) (*ballot.Proposal, error) {
	return b.ctrl.Proposal(b.store(), ballotID, index)
}

// Proposals returns all proposals of the ballot, ordered by index.
func (b *BallotClient) Proposals(ballotID []byte) ([]*ballot.Proposal, error) {
	return b.ctrl.Proposals(b.store(), ballotID)
}

// Voter returns the voter record. An address that was never given the
// right to vote is returned as a zero value voter.
func (b *BallotClient) Voter(ballotID []byte, addr weave.Address) (*ballot.Voter, error) {
	return b.ctrl.Voter(b.store(), ballotID, addr)
}

// WinnerName returns the name of the proposal with the most votes.
func (b *BallotClient) WinnerName(ballotID []byte) (string, error) {
	return b.ctrl.WinnerName(b.store(), ballotID)
}
