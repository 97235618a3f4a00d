package weave

// ReadOnlyKVStore is the read side of every store. Ballots, proposals and
// voters are all read through it.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)

	// Has reports whether the key is present.
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending order. A nil bound is
	// open. The range must not be written while the iterator is open.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks [start, end) in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Implementations
// must not retain or modify the given slices.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is what handlers and controllers operate on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	// NewBatch returns a batch that writes into this store.
	NewBatch() Batch
}

// Batch collects writes and applies them together on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a key range.
//
//   itr, err := db.Iterator(start, end)
//   ...
//   defer itr.Close()
//   for ; itr.Valid(); itr.Next() {
//     k, v := itr.Key(), itr.Value()
//   }
type Iterator interface {
	// Valid is false once the range is exhausted and never becomes true
	// again.
	Valid() bool

	// Next advances the cursor. Panics when not Valid.
	Next()

	// Key of the current position. Panics when not Valid.
	Key() (key []byte)

	// Value of the current position. Panics when not Valid.
	Value() (value []byte)

	Close()
}

// CacheableKVStore can stack a cache of pending writes on top of itself.
// This is the savepoint mechanism: a failed transaction discards its cache
// and leaves no trace.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted writes, visible to its own
// reads. Write applies it to the parent, Discard drops it.
type KVCacheWrap interface {
	CacheableKVStore

	Write() error
	Discard()
}

// CommitKVStore is the persistent root store of the application. Every
// Commit produces a new version.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap opens a cache for the next block.
	CacheWrap() KVCacheWrap

	// Commit persists pending writes as the next version.
	Commit() (CommitID, error)

	// LatestVersion describes the last commit.
	LatestVersion() (CommitID, error)

	Close() error
}

// CommitID identifies a committed version by its height and hash.
type CommitID struct {
	Version int64
	Hash    []byte
}
