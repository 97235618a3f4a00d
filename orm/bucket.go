/*
Package orm splits the key value store into buckets.

A bucket owns the keys under its "name:" prefix and stores a single protobuf
type. Keys may be composite, which is how proposals and voters are scoped to
their ballot: the ballot ID is the key prefix, and a prefix scan lists all
records of one ballot. Sequences provide auto incremented IDs.
*/
package orm

import (
	"fmt"
	"regexp"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
)

// SeqID is the name of the default ID sequence of a bucket.
const SeqID = "id"

// Names starting with an underscore are reserved for internal keys.
var isBucketName = regexp.MustCompile(`^[a-z][a-z_]{2,9}$`).MatchString

// Bucket is an untyped prefixed subspace. ModelBucket wraps it with type
// checks, so most code should not use it directly. proto is cloned to
// decode stored values.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ weave.QueryHandler = Bucket{}

// NewBucket panics on a name that is not 3 to 10 lower case letters or
// underscores, starting with a letter.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

func (b Bucket) Name() string {
	return b.name
}

// Register serves the bucket under "/"+name, or under its own name when
// name is empty.
func (b Bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query returns the record under data, or every record whose key starts
// with data for the prefix modifier. A missing record is an empty result.
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		res := []weave.Model{{Key: key, Value: value}}
		return res, nil
	case weave.PrefixQueryMod:
		prefix := b.DBKey(data)
		return QueryPrefix(db, prefix)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// DBKey prefixes key with the bucket name. The result never shares memory
// with the bucket prefix.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns nil without an error when the key is missing.
func (b Bucket) Get(db weave.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse decodes a stored value into a new object with the given key.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates and stores the model. It must be of the bucket type.
func (b Bucket) Save(db weave.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}
	bz, err := model.Value().Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Sequence returns a named sequence scoped to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}
