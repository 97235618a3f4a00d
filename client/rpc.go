package client

import (
	"context"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// RPCClient sends all requests to a tendermint node.
type RPCClient struct {
	conn rpcclient.ABCIClient
}

var _ Client = (*RPCClient)(nil)

// NewRPCClient wraps an existing tendermint connection.
func NewRPCClient(conn rpcclient.ABCIClient) *RPCClient {
	return &RPCClient{conn: conn}
}

// NewHTTPClient returns a client connected to the remote node, for example
// "http://localhost:26657".
func NewHTTPClient(remote string) *RPCClient {
	return NewRPCClient(rpcclient.NewHTTP(remote, "/websocket"))
}

// CommitTx broadcasts the transaction and waits for it to be included in
// a block.
func (c *RPCClient) CommitTx(ctx context.Context, tx weave.Tx) (*CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrNetwork, err.Error())
	}
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast tx: %s", err.Error())
	}
	return commitResult(res.Height, res.CheckTx, res.DeliverTx)
}

// Query is meant to mirror the abci query interface exactly, so we can
// wrap it with app.ABCIStore.
func (c *RPCClient) Query(query abci.RequestQuery) abci.ResponseQuery {
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, rpcclient.ABCIQueryOptions{
		Height: query.Height,
		Prove:  query.Prove,
	})
	// network error reported as special error code
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}
