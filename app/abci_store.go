package app

import (
	"bytes"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/orm"
	"github.com/iov-one/weave-ballot/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// RawQueryPath is the query path of the raw key value store view.
const RawQueryPath = "/"

// RegisterRawQuery registers a handler that exposes the raw key value
// store under the "/" path. This is required by the ABCIStore.
func RegisterRawQuery(qr weave.QueryRouter) {
	qr.Register(RawQueryPath, rawQuery{})
}

// rawQuery hides keys under store.InternalPrefix.
type rawQuery struct{}

func (rawQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		if isInternal(data) {
			return nil, nil
		}
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(data, value)}, nil
	case weave.PrefixQueryMod:
		models, err := orm.QueryPrefix(db, data)
		if err != nil {
			return nil, err
		}
		visible := models[:0]
		for _, m := range models {
			if !isInternal(m.Key) {
				visible = append(visible, m)
			}
		}
		return visible, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

func isInternal(key []byte) bool {
	return bytes.HasPrefix(key, []byte(store.InternalPrefix))
}

// Querier is implemented by anything that can answer ABCI queries. Both
// abci.Application and a remote node client can serve it.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface of an application as
// a ReadOnlyKVStore. The application must register the raw query handler.
//
// This allows to reuse the bucket and controller read logic on the client
// side.
type ABCIStore struct {
	q Querier
}

var _ weave.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading through the application queries.
func NewABCIStore(q Querier) *ABCIStore {
	return &ABCIStore{q: q}
}

func (a *ABCIStore) query(mod string, data []byte) ([]weave.Model, error) {
	path := RawQueryPath
	if mod != "" {
		path += "?" + mod
	}
	res := a.q.Query(abci.RequestQuery{Path: path, Data: data})
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, err
	}
	var keys, values ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(errors.ErrModel, "cannot unmarshal keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(errors.ErrModel, "cannot unmarshal values")
	}
	return JoinResults(&keys, &values)
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query(weave.KeyQueryMod, key)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].Value, nil
}

// Has returns true if the given key is in the abci app store.
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator supports only prefix ranges, where the end is nil or the
// prefix range end of start.
func (a *ABCIStore) Iterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.prefixRange(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator supports only prefix ranges, where the end is nil or the
// prefix range end of start.
func (a *ABCIStore) ReverseIterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.prefixRange(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) prefixRange(start, end []byte) ([]weave.Model, error) {
	if end != nil && !bytes.Equal(end, orm.PrefixRangeEnd(start)) {
		return nil, errors.Wrap(errors.ErrInput, "only prefix ranges are supported")
	}
	return a.query(weave.PrefixQueryMod, start)
}
