package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-ballot/errors"
)

// Counter is a minimal model used to exercise the buckets.
type Counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

type counterWire Counter

func (m *counterWire) Reset()         { *m = counterWire{} }
func (m *counterWire) String() string { return proto.CompactTextString(m) }
func (*counterWire) ProtoMessage()    {}

func (m *Counter) Marshal() ([]byte, error) { return proto.Marshal((*counterWire)(m)) }
func (m *Counter) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*counterWire)(m)) }

func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func (m *Counter) Copy() CloneableData {
	return &Counter{Count: m.Count}
}
