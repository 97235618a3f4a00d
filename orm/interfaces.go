package orm

import (
	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/x"
)

// Object pairs a key with a protobuf value. The key is stored without the
// bucket prefix.
type Object interface {
	Keyed
	Cloneable
	// Validate is called before every save.
	x.Validater
	Value() weave.Persistent
}

// Keyed can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable creates an empty object to decode into.
type Cloneable interface {
	Clone() Object
}

// CloneableData is implemented by every stored model: Ballot, Proposal,
// Voter and the configuration. Copy must return a deep copy.
type CloneableData interface {
	x.Validater
	weave.Persistent
	Copy() CloneableData
}
