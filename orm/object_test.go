package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleObj(t *testing.T) {
	key := []byte("foo")
	val := &Counter{Count: 7}

	obj := NewSimpleObj(key, val)
	require.Equal(t, key, obj.Key())
	require.EqualValues(t, val, obj.Value())
	require.NoError(t, obj.Validate())

	// clone gives an empty value of the same type
	o2 := obj.Clone()
	require.Equal(t, key, o2.Key())
	require.Equal(t, &Counter{}, o2.Value())

	// modify original, should not affect clone
	val.Count = -1
	assert.Error(t, obj.Validate())
	assert.NoError(t, o2.Validate())

	// empty-ness is no good
	nokey := NewSimpleObj(nil, &Counter{Count: 1})
	assert.Error(t, nokey.Validate())
	nokey.SetKey([]byte{1, 3})
	assert.NoError(t, nokey.Validate())
}
