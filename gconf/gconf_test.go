package gconf

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/store"
	"github.com/iov-one/weave-ballot/weavetest"
	"github.com/iov-one/weave-ballot/weavetest/assert"
)

type limitConfig struct {
	Owner weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-ballot.Address" json:"owner,omitempty"`
	Limit int64         `protobuf:"varint,2,opt,name=limit,proto3" json:"limit,omitempty"`
	Label string        `protobuf:"bytes,3,opt,name=label,proto3" json:"label,omitempty"`
}

type limitConfigWire limitConfig

func (m *limitConfigWire) Reset()         { *m = limitConfigWire{} }
func (m *limitConfigWire) String() string { return proto.CompactTextString(m) }
func (*limitConfigWire) ProtoMessage()    {}

func (c *limitConfig) Marshal() ([]byte, error) { return proto.Marshal((*limitConfigWire)(c)) }
func (c *limitConfig) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*limitConfigWire)(c)) }

func (c *limitConfig) GetOwner() weave.Address { return c.Owner }

func (c *limitConfig) Validate() error {
	if c.Limit < 0 {
		return errors.Wrap(errors.ErrModel, "negative limit")
	}
	return nil
}

type patchLimitMsg struct {
	Patch *limitConfig
}

func (patchLimitMsg) Path() string { return "test/patch_limit" }

func (m *patchLimitMsg) Marshal() ([]byte, error) { return json.Marshal(m) }
func (m *patchLimitMsg) Unmarshal(b []byte) error { return json.Unmarshal(b, m) }

func (m *patchLimitMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrMsg, "patch required")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var empty limitConfig
	err := Load(db, "lim", &empty)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Nil(t, Save(db, "lim", &limitConfig{Limit: 7, Label: "x"}))

	var got limitConfig
	assert.Nil(t, Load(db, "lim", &got))
	assert.Equal(t, int64(7), got.Limit)
	assert.Equal(t, "x", got.Label)

	err = Save(db, "lim", &limitConfig{Limit: -1})
	assert.IsErr(t, errors.ErrModel, err)
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	genesis := map[string]interface{}{
		"conf": map[string]interface{}{
			"lim": map[string]interface{}{
				"owner": owner,
				"limit": 3,
			},
		},
	}
	raw, err := json.Marshal(genesis)
	assert.Nil(t, err)
	var opts weave.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "lim", &limitConfig{}))

	var got limitConfig
	assert.Nil(t, Load(db, "lim", &got))
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, int64(3), got.Limit)

	err = InitConfig(db, opts, "missing", &limitConfig{})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestUpdateConfigurationHandler(t *testing.T) {
	owner := weavetest.NewCondition()
	stranger := weavetest.NewCondition()

	cases := map[string]struct {
		signer  weave.Condition
		patch   *limitConfig
		wantErr *errors.Error
		want    limitConfig
	}{
		"owner can change the limit": {
			signer: owner,
			patch:  &limitConfig{Limit: 11},
			want:   limitConfig{Owner: owner.Address(), Limit: 11, Label: "orig"},
		},
		"zero values are not applied": {
			signer: owner,
			patch:  &limitConfig{Label: "new"},
			want:   limitConfig{Owner: owner.Address(), Limit: 5, Label: "new"},
		},
		"only the owner can change the configuration": {
			signer:  stranger,
			patch:   &limitConfig{Limit: 11},
			wantErr: errors.ErrUnauthorized,
			want:    limitConfig{Owner: owner.Address(), Limit: 5, Label: "orig"},
		},
		"patched configuration must be valid": {
			signer:  owner,
			patch:   &limitConfig{Limit: -2},
			wantErr: errors.ErrModel,
			want:    limitConfig{Owner: owner.Address(), Limit: 5, Label: "orig"},
		},
		"patch is required": {
			signer:  owner,
			wantErr: errors.ErrMsg,
			want:    limitConfig{Owner: owner.Address(), Limit: 5, Label: "orig"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			initial := &limitConfig{Owner: owner.Address(), Limit: 5, Label: "orig"}
			assert.Nil(t, Save(db, "lim", initial))

			auth := &weavetest.Auth{Signer: tc.signer}
			h := NewUpdateConfigurationHandler("lim", &limitConfig{}, auth)
			tx := &weavetest.Tx{Msg: &patchLimitMsg{Patch: tc.patch}}

			_, err := h.Deliver(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}

			var got limitConfig
			assert.Nil(t, Load(db, "lim", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUpdateConfigurationHandlerWithoutConfiguration(t *testing.T) {
	owner := weavetest.NewCondition()
	h := NewUpdateConfigurationHandler("lim", &limitConfig{}, &weavetest.Auth{Signer: owner})
	tx := &weavetest.Tx{Msg: &patchLimitMsg{Patch: &limitConfig{Limit: 1}}}
	_, err := h.Check(context.Background(), store.MemStore(), tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}
