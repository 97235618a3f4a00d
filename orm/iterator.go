package orm

import (
	weave "github.com/iov-one/weave-ballot"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr weave.Iterator) []weave.Model {
	defer itr.Close()

	var res []weave.Model
	for ; itr.Valid(); itr.Next() {
		res = append(res, weave.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		})
	}
	return res
}

// QueryPrefix returns all models with keys starting with the given prefix.
func QueryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	itr, err := db.Iterator(prefix, PrefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr), nil
}

// PrefixRangeEnd returns the smallest key that is greater than all keys
// with the given prefix. Nil is returned if no such key exists.
func PrefixRangeEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
