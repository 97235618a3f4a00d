package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/weave-ballot/errors"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache that is either written to this store or
// discarded.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in memory store without persistence. Used by tests
// and by genesis validation.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps uncommitted writes in a btree on top of a read only
// store. All writes are also queued in a batch that Write flushes.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap wraps kv. Writes only reach kv through batch. A nil
// free list allocates a new one, nested caches share their parent's.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap nests another cache on top of this one. This is how the
// savepoint decorators isolate a single transaction.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the queued operations and releases the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached entries. Nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

// Set records the value in the cache and queues it for the next Write.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete hides the key from readers of this cache and queues the removal.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// lookup returns the cached entry for the key. Found is false when the key
// was never touched through this cache and the backing store must be asked.
func (b BTreeCacheWrap) lookup(key []byte) (e entry, found bool, err error) {
	res := b.bt.Get(entry{key: key})
	if res == nil {
		return entry{}, false, nil
	}
	e, ok := res.(entry)
	if !ok {
		return entry{}, false, errors.Wrapf(errors.ErrDatabase, "unexpected btree item %T", res)
	}
	return e, true, nil
}

// Get prefers the cached value over the backing store.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, found, err := b.lookup(key)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return b.back.Get(key)
	case e.deleted:
		return nil, nil
	default:
		return e.value, nil
	}
}

// Has prefers the cached state over the backing store.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, found, err := b.lookup(key)
	switch {
	case err != nil:
		return false, err
	case !found:
		return b.back.Has(key)
	default:
		return !e.deleted, nil
	}
}

// Iterator returns the merged view of cache and backing store in
// ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models), nil
}

// merged returns the [start, end) range of the backing store with the
// cached entries applied, ordered by key.
func (b BTreeCacheWrap) merged(start, end []byte) ([]Model, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer parent.Close()

	var (
		res   []Model
		local = collectRange(b.bt, start, end)
	)
	for parent.Valid() || len(local) > 0 {
		var cmp int
		switch {
		case !parent.Valid():
			cmp = 1
		case len(local) == 0:
			cmp = -1
		default:
			cmp = bytes.Compare(parent.Key(), local[0].key)
		}

		if cmp < 0 {
			res = append(res, Model{Key: parent.Key(), Value: parent.Value()})
			parent.Next()
			continue
		}
		if cmp == 0 {
			// Shadowed by the cached entry.
			parent.Next()
		}
		if !local[0].deleted {
			res = append(res, Model{Key: local[0].key, Value: local[0].value})
		}
		local = local[1:]
	}
	return res, nil
}

func collectRange(bt *btree.BTree, start, end []byte) []entry {
	var entries []entry
	collect := func(i btree.Item) bool {
		entries = append(entries, i.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return entries
}

// entry is a single cached write. A deleted entry masks the backing store
// value of the same key.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

// Less orders entries by key.
func (e entry) Less(other btree.Item) bool {
	return bytes.Compare(e.key, other.(entry).key) < 0
}
