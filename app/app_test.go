package app

import (
	"context"
	"testing"
	"time"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/orm"
	"github.com/iov-one/weave-ballot/store/leveldb"
	"github.com/iov-one/weave-ballot/weavetest"
	"github.com/iov-one/weave-ballot/weavetest/assert"
	abci "github.com/tendermint/tendermint/abci/types"
)

const testChainID = "test-chain-app"

// pathDecoder builds a transaction whose message path is the raw content.
func pathDecoder(raw []byte) (weave.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: string(raw)}}, nil
}

func testRouter() *Router {
	r := NewRouter()
	r.Handle("test/write", &weavetest.WriteHandler{Key: []byte("k:1"), Value: []byte("one")})
	r.Handle("test/write2", &weavetest.WriteHandler{Key: []byte("k:2"), Value: []byte("two")})
	r.Handle("test/check", &weavetest.WriteHandler{Key: []byte("c"), Value: []byte("check")})
	return r
}

func newTestApp(db weave.CommitKVStore) BaseApp {
	qr := weave.NewQueryRouter()
	RegisterRawQuery(qr)
	store := NewStoreApp("test", db, qr, context.Background())
	return NewBaseApp(store, pathDecoder, testRouter(), false)
}

func deliverBlock(app BaseApp, height int64, txs ...string) []abci.ResponseDeliverTx {
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: height, Time: time.Now()}})
	var res []abci.ResponseDeliverTx
	for _, tx := range txs {
		res = append(res, app.DeliverTx([]byte(tx)))
	}
	app.EndBlock(abci.RequestEndBlock{Height: height})
	app.Commit()
	return res
}

func queryValue(t *testing.T, app BaseApp, key []byte) []byte {
	t.Helper()
	res := app.Query(abci.RequestQuery{Path: "/", Data: key})
	assert.Nil(t, errors.ABCIError(res.Code, res.Log))
	var values ResultSet
	assert.Nil(t, values.Unmarshal(res.Value))
	if len(values.Results) == 0 {
		return nil
	}
	return values.Results[0]
}

func TestBaseApp(t *testing.T) {
	db, cleanup := weavetest.CommitKVStore(t)
	defer cleanup()

	app := newTestApp(db)
	app.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	app.Commit()
	assert.Equal(t, testChainID, app.GetChainID())
	assert.Equal(t, int64(1), app.Info(abci.RequestInfo{}).LastBlockHeight)

	// the chain can be initialized only once
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	})

	// check does not modify the committed state
	chres := app.CheckTx([]byte("test/check"))
	assert.Equal(t, uint32(0), chres.Code)

	res := deliverBlock(app, 2, "test/write", "test/missing", "")
	assert.Equal(t, uint32(0), res[0].Code)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res[1].Code)
	assert.Equal(t, errors.ErrInput.ABCICode(), res[2].Code)

	assert.Equal(t, []byte("one"), queryValue(t, app, []byte("k:1")))
	assert.Equal(t, []byte(nil), queryValue(t, app, []byte("c")))

	// delivered but not committed data is not visible
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 3}})
	app.DeliverTx([]byte("test/write2"))
	assert.Equal(t, []byte(nil), queryValue(t, app, []byte("k:2")))
	app.EndBlock(abci.RequestEndBlock{Height: 3})
	app.Commit()
	assert.Equal(t, []byte("two"), queryValue(t, app, []byte("k:2")))

	res2 := app.Query(abci.RequestQuery{Path: "/nothing", Data: []byte("k:1")})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res2.Code)

	res3 := app.Query(abci.RequestQuery{Path: "/?range", Data: []byte("k:1")})
	assert.Equal(t, errors.ErrInput.ABCICode(), res3.Code)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(3), info.LastBlockHeight)
	assert.Equal(t, "test", info.Data)

	// a restarted application loads the chain ID and height
	restarted := newTestApp(db)
	assert.Equal(t, testChainID, restarted.GetChainID())
	assert.Equal(t, info.LastBlockAppHash, restarted.Info(abci.RequestInfo{}).LastBlockAppHash)
}

func TestInvalidChainID(t *testing.T) {
	db, err := leveldb.NewMemCommitStore()
	assert.Nil(t, err)
	app := newTestApp(db)
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "x", AppStateBytes: []byte(`{}`)})
	})
}

func TestABCIStore(t *testing.T) {
	db, err := leveldb.NewMemCommitStore()
	assert.Nil(t, err)
	app := newTestApp(db)
	app.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	app.Commit()
	deliverBlock(app, 2, "test/write", "test/write2")

	kv := NewABCIStore(app)

	v, err := kv.Get([]byte("k:1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("one"), v)

	has, err := kv.Has([]byte("k:3"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	prefix := []byte("k:")
	it, err := kv.Iterator(prefix, orm.PrefixRangeEnd(prefix))
	assert.Nil(t, err)
	models := orm.ConsumeIterator(it)
	assert.Equal(t, 2, len(models))
	assert.Equal(t, []byte("k:1"), models[0].Key)

	it, err = kv.ReverseIterator(prefix, nil)
	assert.Nil(t, err)
	models = orm.ConsumeIterator(it)
	assert.Equal(t, 2, len(models))
	assert.Equal(t, []byte("two"), models[0].Value)

	_, err = kv.Iterator([]byte("a"), []byte("z"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestRawQueryHidesInternalKeys(t *testing.T) {
	db, err := leveldb.NewMemCommitStore()
	assert.Nil(t, err)
	app := newTestApp(db)
	app.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	app.Commit()
	deliverBlock(app, 2, "test/write")

	assert.Equal(t, []byte(nil), queryValue(t, app, []byte(chainIDKey)))

	kv := NewABCIStore(app)
	it, err := kv.Iterator(nil, nil)
	assert.Nil(t, err)
	models := orm.ConsumeIterator(it)
	assert.Equal(t, 1, len(models))
	assert.Equal(t, []byte("k:1"), models[0].Key)
}
