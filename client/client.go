/*
Package client provides access to a running ballot chain.

Two transports are supported. RPCClient talks to a tendermint node over its
RPC interface. LocalClient drives an in-process application directly,
committing a block for every submitted transaction.

BallotClient builds on top of any of them and exposes the ballot
operations. State is read through app.ABCIStore, so the same controller
code that runs inside of the chain is used to interpret the results.
*/
package client

import (
	"context"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/app"
	"github.com/iov-one/weave-ballot/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// Client is the minimal interface of a chain connection.
type Client interface {
	app.Querier

	// CommitTx submits the transaction and blocks until it is included
	// in a block. An error is returned if the transaction was rejected
	// at any stage.
	CommitTx(ctx context.Context, tx weave.Tx) (*CommitResult, error)
}

// CommitResult describes a transaction included in a block.
type CommitResult struct {
	Height int64
	Data   []byte
	Log    string
	Tags   []common.KVPair
}

// commitResult converts the check and deliver responses into a result. It
// returns the first failure.
func commitResult(height int64, check abci.ResponseCheckTx, deliver abci.ResponseDeliverTx) (*CommitResult, error) {
	if err := errors.ABCIError(check.Code, check.Log); err != nil {
		return nil, errors.Wrap(err, "check tx")
	}
	res, err := weave.ParseDeliverOrError(deliver)
	if err != nil {
		return nil, errors.Wrap(err, "deliver tx")
	}
	return &CommitResult{
		Height: height,
		Data:   res.Data,
		Log:    res.Log,
		Tags:   res.Tags,
	}, nil
}
