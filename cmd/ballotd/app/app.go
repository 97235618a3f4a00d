/*
Package app links together all the various components
to construct the ballotd app.
*/
package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/app"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/store/leveldb"
	"github.com/iov-one/weave-ballot/x"
	"github.com/iov-one/weave-ballot/x/ballot"
	"github.com/iov-one/weave-ballot/x/sigs"
	"github.com/iov-one/weave-ballot/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all ballot messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ballot.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/ballots", "/proposals", "/voters",
// "/ballots/winner", "/auth" and "/"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		ballot.RegisterQuery,
		sigs.RegisterQuery,
		app.RegisterRawQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() weave.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h weave.Handler, tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path returns an in memory store.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return leveldb.NewMemCommitStore()
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}
	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path)) + ".db"
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create %s: %s", filepath.Dir(path), err)
	}
	return leveldb.NewCommitStore(path)
}
