package weave

import (
	"encoding/json"

	"github.com/iov-one/weave-ballot/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Handler processes the messages of one route, for example "ballot/vote".
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction for the mempool. It may write to the
// check store, which is dropped at the end of the block.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction included in a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the next handler in the chain. Signature checks,
// savepoints and logging are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message paths to handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckResult is returned by a successful Check.
type CheckResult struct {
	// Data is a machine readable result, such as a new ballot ID.
	Data []byte
	Log  string
	// GasAllocated is the maximum work this transaction may perform.
	GasAllocated int64
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	// Data is a machine readable result, such as a new ballot ID.
	Data []byte
	Log  string
	// Tags index the transaction, for example by ballot.
	Tags    []common.KVPair
	GasUsed int64
}

// Options is the genesis app_state, one raw JSON value per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the value under key into obj. A missing key leaves obj
// untouched, so defaults set by the caller survive.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
