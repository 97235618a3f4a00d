package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related part of abci.Application: the
// handshake, genesis, queries and commits. BaseApp embeds it and adds
// transaction processing.
//
// All ABCI calls are serialized. One call is fully processed before the
// next one starts, which gives the ballot state machine a single ordered
// log of transitions. Steps without user input (Info, InitChain,
// BeginBlock, EndBlock and Commit) cannot report errors and panic instead.
type StoreApp struct {
	mu sync.Mutex

	logger log.Logger
	// name is reported by Info.
	name        string
	store       *CommitStore
	initializer weave.Initializer
	queryRouter weave.QueryRouter

	// chainID is written once by InitChain and loaded on restart.
	chainID string

	// baseContext lives as long as the app, blockContext is replaced
	// on every BeginBlock.
	baseContext  weave.Context
	blockContext weave.Context

	debug bool
}

// NewStoreApp loads the chain ID and the last height from store. It panics
// if the store cannot be read.
func NewStoreApp(name string, store weave.CommitKVStore, queryRouter weave.QueryRouter, baseContext weave.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.store.DeliverStore())
	if err != nil {
		panic(err)
	}
	s.chainID = chainID
	if s.chainID != "" {
		s.baseContext = weave.WithChainID(s.baseContext, s.chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = weave.WithHeight(s.baseContext, info.Version)
	return s
}

// GetChainID is empty until InitChain ran.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis initializer used by InitChain.
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug exposes the details of internal errors in the responses.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger replaces the logger of the app and of its contexts.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = weave.WithLogger(s.baseContext, logger)
	if s.blockContext != nil {
		s.blockContext = weave.WithLogger(s.blockContext, logger)
	}
	s.logger = logger
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext carries the chain ID, height and block time of the
// current block.
func (s *StoreApp) BlockContext() weave.Context {
	return s.blockContext
}

// DeliverStore is the cache written by DeliverTx, flushed on Commit.
func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore is the cache written by CheckTx, dropped on Commit.
func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.store.CheckStore()
}

// parseAppState loads the genesis app_state. It only runs for a new chain.
func (s *StoreApp) parseAppState(data []byte, chainID string, init weave.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain: %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrState, "app_state not set in genesis.json, please initialize application before launching the blockchain")
	}

	var appState weave.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrapf(errors.ErrInput, "parse app state: %s", err)
	}
	if err := s.storeChainID(chainID); err != nil {
		return err
	}
	if init == nil {
		return nil
	}
	return init.FromGenesis(appState, s.store.DeliverStore())
}

// storeChainID persists the chain ID and adds it to both contexts.
func (s *StoreApp) storeChainID(chainID string) error {
	if err := saveChainID(s.store.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = weave.WithChainID(s.baseContext, s.chainID)
	s.blockContext = weave.WithChainID(s.blockContext, s.chainID)
	return nil
}

// Info reports the last committed height and app hash, letting tendermint
// replay the blocks the app has not seen yet.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query serves a registered query path, such as "/ballots" or "/voters",
// against the last committed state. A "?prefix" suffix turns the lookup
// into a prefix scan. Key and Value of the response are ResultSet
// messages of the same length.
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, mod := splitPath(reqQuery.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return s.queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path %q, known paths: %s",
			path, strings.Join(s.queryRouter.Paths(), ", ")))
	}
	if !weave.IsQueryMod(mod) {
		return s.queryError(errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return s.queryError(err)
	}

	models, err := qh.Query(s.store.Committed(), mod, reqQuery.Data)
	if err != nil {
		return s.queryError(err)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return s.queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return s.queryError(err)
	}
	return res
}

// splitPath separates the modifier following "?" from the path.
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func (s *StoreApp) queryError(err error) abci.ResponseQuery {
	code, msg := errors.ABCIInfo(err, s.debug)
	return abci.ResponseQuery{
		Log:  msg,
		Code: code,
	}
}

// Commit persists the deliver cache as a new version.
func (s *StoreApp) Commit() abci.ResponseCommit {
	s.mu.Lock()
	defer s.mu.Unlock()

	commitID, err := s.store.Commit()
	if err != nil {
		panic(err)
	}

	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}

// InitChain stores the chain ID and loads the genesis state.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock starts a new block context.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := weave.WithHeight(s.baseContext, req.Header.GetHeight())
	ctx = weave.WithBlockTime(ctx, req.Header.GetTime())
	s.blockContext = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock implements ABCI. The ballot chain does not change validators.
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
