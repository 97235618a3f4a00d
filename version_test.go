package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(c string) { GitCommit = c }(GitCommit)

	GitCommit = ""
	assert.Equal(t, "v0.1.0", Version())

	GitCommit = "12345678"
	assert.Equal(t, "v0.1.0 (12345678)", Version())
}
