package weave

import (
	"testing"

	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/weavetest/assert"
)

type voteMsgMock struct {
	Index int32
}

func (voteMsgMock) Path() string               { return "ballot/vote" }
func (voteMsgMock) Validate() error            { return nil }
func (voteMsgMock) Marshal() ([]byte, error)   { return []byte("vote"), nil }
func (*voteMsgMock) Unmarshal(bz []byte) error { return nil }

var _ Msg = (*voteMsgMock)(nil)

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		Tx      Tx
		Dest    interface{}
		WantMsg Msg
		WantErr *errors.Error
	}{
		"success, msgmock type message": {
			Tx:      &TxMock{Msg: &MsgMock{ID: 4219}},
			Dest:    &MsgMock{},
			WantMsg: &MsgMock{ID: 4219},
		},
		"success, vote message": {
			Tx:      &TxMock{Msg: &voteMsgMock{Index: 2}},
			Dest:    &voteMsgMock{},
			WantMsg: &voteMsgMock{Index: 2},
		},
		"transaction contains a nil message": {
			Tx:      &TxMock{Msg: nil},
			Dest:    &MsgMock{},
			WantErr: errors.ErrState,
		},
		"transaction message cannot be read": {
			Tx:      &TxMock{Err: errors.ErrModel},
			Dest:    &MsgMock{},
			WantErr: errors.ErrModel,
		},
		"invalid destination message, not a pointer": {
			Tx:      &TxMock{Msg: &voteMsgMock{Index: 1}},
			Dest:    MsgMock{},
			WantErr: errors.ErrType,
		},
		"invalid destination message, wrong message type": {
			Tx:      &TxMock{Msg: &voteMsgMock{Index: 1}},
			Dest:    &MsgMock{},
			WantErr: errors.ErrType,
		},
		"invalid destination message, nil interface": {
			Tx:      &TxMock{Msg: &MsgMock{ID: 45192}},
			Dest:    Msg(nil),
			WantErr: errors.ErrType,
		},
		"invalid destination message, unaddressable": {
			Tx:      &TxMock{Msg: &MsgMock{ID: 91841231}},
			Dest:    (*MsgMock)(nil),
			WantErr: errors.ErrType,
		},
		"invalid message in transaction, failed validation": {
			Tx:      &TxMock{Msg: &MsgMock{ID: 5, Err: errors.ErrInput}},
			Dest:    &MsgMock{},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := LoadMsg(tc.Tx, tc.Dest); !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %q", tc.WantErr, err)
			}

			if tc.WantErr == nil {
				assert.Equal(t, tc.WantMsg, tc.Dest)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "ballot/vote", GetPath(&TxMock{Msg: &voteMsgMock{}}))
	assert.Equal(t, "(missing)", GetPath(&TxMock{}))
}

type TxMock struct {
	Tx
	Msg Msg
	Err error
}

func (tx *TxMock) GetMsg() (Msg, error) {
	return tx.Msg, tx.Err
}

type MsgMock struct {
	Msg
	// ID is used only to compare instances if the content is the same.
	ID  int64
	Err error
}

func (mock *MsgMock) Validate() error {
	return mock.Err
}
