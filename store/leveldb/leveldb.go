/*
Package leveldb provides a persistent CommitKVStore implementation backed by
goleveldb.

Writes flushed from a cache wrap are held in memory until Commit. Commit
writes them together with the new version and state hash in a single
synced batch, so a crash never leaves block data on disk without the
matching version. The state hash chains the previous hash with the content
of the flushed batches.
*/
package leveldb

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/store"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	versionKey = []byte(store.InternalPrefix + "version")
	hashKey    = []byte(store.InternalPrefix + "hash")
)

// CommitStore manages a goleveldb committed state.
type CommitStore struct {
	db *leveldb.DB

	mu sync.Mutex
	// pending holds every batch written since the last commit. ops is the
	// same content in order, used to compute the next state hash.
	pending *leveldb.Batch
	ops     []store.Op
}

var _ store.CommitKVStore = (*CommitStore)(nil)
var _ store.KVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) a database in the given directory.
func NewCommitStore(path string) (*CommitStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", path, err)
	}
	return newCommitStore(db), nil
}

// NewMemCommitStore returns a store that keeps all data in memory. Useful
// for tests and throw away instances.
func NewMemCommitStore() (*CommitStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open memory storage: %s", err)
	}
	return newCommitStore(db), nil
}

func newCommitStore(db *leveldb.DB) *CommitStore {
	return &CommitStore{
		db:      db,
		pending: new(leveldb.Batch),
	}
}

// Close releases the underlying database. Writes that were not committed
// are lost.
func (s *CommitStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Get returns the value at last committed state. Batches written since
// then are not visible until Commit.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	switch err {
	case nil:
		return val, nil
	case leveldb.ErrNotFound:
		return nil, nil
	default:
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
}

// Has returns true if given key exists.
func (s *CommitStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes the value directly into the database, bypassing the commit
// tracking. Use CacheWrap to write data that should be part of the next
// commit.
func (s *CommitStore) Set(key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes the value directly from the database, bypassing the commit
// tracking.
func (s *CommitStore) Delete(key []byte) error {
	if err := s.db.Delete(key, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Iterator over a domain of keys in ascending order.
func (s *CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	models, err := s.load(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator over a domain of keys in descending order.
func (s *CommitStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	models, err := s.load(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (s *CommitStore) load(start, end []byte) ([]store.Model, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	defer it.Release()

	var models []store.Model
	for it.Next() {
		// Iterator reuses the buffers, data must be copied.
		models = append(models, store.Model{
			Key:   append([]byte(nil), it.Key()...),
			Value: append([]byte(nil), it.Value()...),
		})
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return models, nil
}

// NewBatch returns a batch that becomes part of the next commit once
// written.
func (s *CommitStore) NewBatch() store.Batch {
	return &batch{store: s}
}

// CacheWrap returns a cache whose content is persisted by the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit persists the next version and returns its information.
func (s *CommitStore) Commit() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.LatestVersion()
	if err != nil {
		return store.CommitID{}, err
	}

	h := sha256.New()
	h.Write(last.Hash)
	for _, op := range s.ops {
		writeChunk(h, op.Key())
		if op.IsSetOp() {
			writeChunk(h, op.Value())
		}
	}
	next := store.CommitID{
		Version: last.Version + 1,
		Hash:    h.Sum(nil),
	}

	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(next.Version))
	s.pending.Put(versionKey, raw)
	s.pending.Put(hashKey, next.Hash)
	if err := s.db.Write(s.pending, &opt.WriteOptions{Sync: true}); err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.pending.Reset()
	s.ops = nil
	return next, nil
}

// LatestVersion returns the information about the last commit. Zero value is
// returned if nothing was committed yet.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	var id store.CommitID
	raw, err := s.Get(versionKey)
	if err != nil {
		return id, err
	}
	if len(raw) == 8 {
		id.Version = int64(binary.BigEndian.Uint64(raw))
	}
	if id.Hash, err = s.Get(hashKey); err != nil {
		return id, err
	}
	return id, nil
}

type hashWriter interface {
	Write([]byte) (int, error)
}

func writeChunk(h hashWriter, data []byte) {
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(data)))
	h.Write(size)
	h.Write(data)
}

// batch queues operations and hands them over to the store pending commit
// on Write.
type batch struct {
	store *CommitStore
	ops   []store.Op
}

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(clone(key), clone(value)))
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(clone(key)))
	return nil
}

func (b *batch) Write() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, op := range b.ops {
		if op.IsSetOp() {
			b.store.pending.Put(op.Key(), op.Value())
		} else {
			b.store.pending.Delete(op.Key())
		}
	}
	b.store.ops = append(b.store.ops, b.ops...)
	b.ops = nil
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
