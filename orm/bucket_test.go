package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketName(t *testing.T) {
	for _, name := range []string{"ballot", "voter", "two_words", "abc"} {
		assert.NotPanics(t, func() { NewBucket(name, NewSimpleObj(nil, &Counter{})) }, name)
	}
	// Underscore prefixed keys belong to the framework.
	for _, name := range []string{"_wv", "_c", "ab", "Upper", "waytoolongname", "with:colon"} {
		assert.Panics(t, func() { NewBucket(name, NewSimpleObj(nil, &Counter{})) }, name)
	}
}
