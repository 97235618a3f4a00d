package orm

import (
	"testing"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	require.NoError(t, b.Put(db, []byte("c1"), &Counter{Count: 1}))

	var c1 Counter
	require.NoError(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(1), c1.Count)
	assert.NoError(t, b.Has(db, []byte("c1")))

	err := b.One(db, []byte("unknown"), &c1)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, []byte("unknown"))))
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, nil)))

	require.NoError(t, b.Put(db, []byte("c1"), &Counter{Count: 2}))
	require.NoError(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(2), c1.Count)
}

func TestModelBucketPutInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	err := b.Put(db, []byte("c1"), &Counter{Count: -4})
	assert.True(t, errors.ErrModel.Is(err), "got %+v", err)

	err = b.Put(db, nil, &Counter{Count: 4})
	assert.True(t, errors.ErrEmpty.Is(err), "got %+v", err)
}

func TestModelBucketByPrefix(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	require.NoError(t, b.Put(db, []byte("a:1"), &Counter{Count: 1}))
	require.NoError(t, b.Put(db, []byte("a:2"), &Counter{Count: 2}))
	require.NoError(t, b.Put(db, []byte("b:1"), &Counter{Count: 3}))

	var values []Counter
	keys, err := b.ByPrefix(db, []byte("a:"), &values)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a:1"), []byte("a:2")}, keys)
	assert.Equal(t, []Counter{{Count: 1}, {Count: 2}}, values)

	var ptrs []*Counter
	keys, err = b.ByPrefix(db, nil, &ptrs)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.Equal(t, int64(3), ptrs[2].Count)

	var wrong []weave.Model
	_, err = b.ByPrefix(db, nil, &wrong)
	assert.True(t, errors.ErrType.Is(err), "got %+v", err)

	_, err = b.ByPrefix(db, nil, values)
	assert.True(t, errors.ErrType.Is(err), "got %+v", err)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})
	require.NoError(t, b.Put(db, []byte("a:1"), &Counter{Count: 1}))
	require.NoError(t, b.Put(db, []byte("a:2"), &Counter{Count: 2}))

	qr := weave.NewQueryRouter()
	b.Register("counters", qr)
	h := qr.Handler("/counters")
	require.NotNil(t, h)

	res, err := h.Query(db, weave.KeyQueryMod, []byte("a:1"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("cnts:a:1"), res[0].Key)

	res, err = h.Query(db, weave.KeyQueryMod, []byte("missing"))
	require.NoError(t, err)
	assert.Len(t, res, 0)

	res, err = h.Query(db, weave.PrefixQueryMod, []byte("a:"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	_, err = h.Query(db, "unknown", nil)
	assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
}

func TestPrefixRangeEnd(t *testing.T) {
	assert.Equal(t, []byte("ab"), PrefixRangeEnd([]byte("aa")))
	assert.Equal(t, []byte{2}, PrefixRangeEnd([]byte{1, 0xff}))
	assert.Nil(t, PrefixRangeEnd([]byte{0xff, 0xff}))
}
