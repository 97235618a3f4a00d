package weavetest

import (
	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
)

// Tx carries a single message. Err, when set, is returned by GetMsg.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) {
	return tx.Msg, tx.Err
}

// Marshal returns the serialized message. A Tx has no envelope of its own.
func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg.Marshal()
}

// Unmarshal wraps raw in a Msg without a route.
func (tx *Tx) Unmarshal(raw []byte) error {
	msg := &Msg{}
	if err := msg.Unmarshal(raw); err != nil {
		return err
	}
	tx.Msg = msg
	return nil
}

// Msg routes to RoutePath and serializes to Serialized. Err, when set, is
// returned by Validate and by the codec methods.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
