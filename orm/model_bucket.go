package orm

import (
	"reflect"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
)

// Model is a protobuf entity stored by a ModelBucket. It is the same set of
// methods as CloneableData.
type Model interface {
	weave.Persistent
	Validate() error
	Copy() CloneableData
}

// ModelSlicePtr is a pointer to a slice of models, either *[]T or *[]*T.
// The element type is checked at runtime.
type ModelSlicePtr interface{}

// ModelBucket stores models of a single type.
type ModelBucket interface {
	// One loads the model stored under key into dest. ErrNotFound is
	// returned for a missing key, ErrType when dest is of another type.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns ErrNotFound for a missing key.
	Has(db weave.ReadOnlyKVStore, key []byte) error

	// ByPrefix appends every model whose key starts with prefix to dest,
	// in key order, and returns their keys.
	ByPrefix(db weave.ReadOnlyKVStore, prefix []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put validates and stores m under key.
	Put(db weave.KVStore, key []byte, m Model) error

	// Register serves the bucket as a query path.
	Register(name string, r weave.QueryRouter)
}

// NewModelBucket returns a bucket for models of the same type as m.
func NewModelBucket(name string, m Model) ModelBucket {
	return &modelBucket{
		b:     NewBucket(name, NewSimpleObj(nil, m)),
		model: reflect.TypeOf(m),
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) Register(name string, r weave.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	res := obj.Value()
	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", res, dest)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	// The store panics on a nil key.
	if key == nil {
		return errors.ErrNotFound
	}
	switch ok, err := db.Has(mb.b.DBKey(key)); {
	case err != nil:
		return err
	case !ok:
		return errors.ErrNotFound
	default:
		return nil
	}
}

func (mb *modelBucket) ByPrefix(db weave.ReadOnlyKVStore, prefix []byte, destination ModelSlicePtr) ([][]byte, error) {
	dest, pointers, err := mb.sliceOf(destination)
	if err != nil {
		return nil, err
	}

	models, err := QueryPrefix(db, mb.b.DBKey(prefix))
	if err != nil {
		return nil, err
	}

	keys := make([][]byte, 0, len(models))
	for _, m := range models {
		obj, err := mb.b.Parse(nil, m.Value)
		if err != nil {
			return nil, err
		}
		val := reflect.ValueOf(obj.Value())
		if !pointers {
			val = val.Elem()
		}
		dest.Set(reflect.Append(dest, val))
		keys = append(keys, m.Key[len(mb.b.prefix):])
	}
	return keys, nil
}

// sliceOf returns the slice pointed to by destination after checking that
// it can hold this bucket's models. pointers is true for *[]*T.
func (mb *modelBucket) sliceOf(destination ModelSlicePtr) (reflect.Value, bool, error) {
	ptr := reflect.ValueOf(destination)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return reflect.Value{}, false, errors.Wrap(errors.ErrType, "destination must be a pointer to slice of models")
	}
	dest := ptr.Elem()
	if dest.Kind() != reflect.Slice {
		return reflect.Value{}, false, errors.Wrap(errors.ErrType, "destination must be a pointer to slice of models")
	}
	elem := dest.Type().Elem()
	pointers := elem.Kind() == reflect.Ptr
	if pointers {
		elem = elem.Elem()
	}
	if mb.model.Elem() != elem {
		return reflect.Value{}, false, errors.Wrapf(errors.ErrType, "this bucket operates on %s model and cannot return %s", mb.model, elem)
	}
	return dest, pointers, nil
}

func (mb *modelBucket) Put(db weave.KVStore, key []byte, m Model) error {
	if !reflect.TypeOf(m).AssignableTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "cannot store %T type in this bucket", m)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	if err := mb.b.Save(db, NewSimpleObj(key, m)); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}
