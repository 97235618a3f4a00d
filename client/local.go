package client

import (
	"context"
	"sync"
	"time"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// LocalClient runs transactions directly against an application without
// a consensus engine. Every transaction is processed in its own block.
type LocalClient struct {
	mu     sync.Mutex
	app    abci.Application
	height int64
	now    func() time.Time
}

var _ Client = (*LocalClient)(nil)

// NewLocalClient wraps an initialized application. Block heights continue
// from the last committed height.
func NewLocalClient(app abci.Application) *LocalClient {
	info := app.Info(abci.RequestInfo{})
	return &LocalClient{
		app:    app,
		height: info.LastBlockHeight,
		now:    time.Now,
	}
}

// InitChain loads the genesis application state and commits it as the first
// block. It must be called only once for a fresh database.
func (c *LocalClient) InitChain(chainID string, appState []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.app.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: appState,
	})
	c.app.Commit()
	c.height++
}

// CommitTx checks the transaction and, if valid, delivers it within a new
// block that is committed before returning.
func (c *LocalClient) CommitTx(ctx context.Context, tx weave.Tx) (*CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrNetwork, err.Error())
	}
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	check := c.app.CheckTx(bz)
	if check.IsErr() {
		return commitResult(c.height, check, abci.ResponseDeliverTx{})
	}

	height := c.height + 1
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: height, Time: c.now()},
	})
	deliver := c.app.DeliverTx(bz)
	c.app.EndBlock(abci.RequestEndBlock{Height: height})
	c.app.Commit()
	c.height = height

	return commitResult(height, check, deliver)
}

// Query runs the query against the latest committed state.
func (c *LocalClient) Query(query abci.RequestQuery) abci.ResponseQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.app.Query(query)
}
