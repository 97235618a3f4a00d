package store

import weave "github.com/iov-one/weave-ballot"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = weave.ReadOnlyKVStore
type SetDeleter = weave.SetDeleter
type KVStore = weave.KVStore
type Batch = weave.Batch
type Iterator = weave.Iterator
type CacheableKVStore = weave.CacheableKVStore
type KVCacheWrap = weave.KVCacheWrap
type CommitKVStore = weave.CommitKVStore
type CommitID = weave.CommitID
type Model = weave.Model

// InternalPrefix starts every key owned by the framework itself, such as
// the commit version or the chain ID. Queries never expose these keys and
// bucket names cannot start with an underscore.
const InternalPrefix = "_wv:"
