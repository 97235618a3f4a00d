package weave

import "fmt"

// Release of the ballot application. Bump Major when the state or the
// transaction format changes incompatibly.
const (
	Major = 0
	Minor = 1
	Patch = 0
)

// GitCommit is set with -ldflags "-X github.com/iov-one/weave-ballot.GitCommit=<sha>".
var GitCommit = ""

// Version returns the release, followed by the commit it was built from
// when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d", Major, Minor, Patch)
	if GitCommit == "" {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, GitCommit)
}
