package weavetest

import (
	"context"
	"reflect"
	"testing"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
)

func TestAuth(t *testing.T) {
	conds := []weave.Condition{
		NewCondition(),
		NewCondition(),
		NewCondition(),
	}

	cases := map[string]struct {
		auth Auth
		want []weave.Condition
	}{
		"no signers": {
			auth: Auth{},
			want: nil,
		},
		"signer only": {
			auth: Auth{Signer: conds[0]},
			want: conds[:1],
		},
		"signers only": {
			auth: Auth{Signers: conds},
			want: conds,
		},
		"signer is last": {
			auth: Auth{Signer: conds[2], Signers: conds[:2]},
			want: conds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := tc.auth.GetConditions(nil)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %v conditions, got %v", tc.want, got)
			}
			for i, c := range tc.want {
				if !tc.auth.HasAddress(nil, c.Address()) {
					t.Errorf("condition %d (%s) address should be present", i, c)
				}
			}
			if tc.auth.HasAddress(nil, NewCondition().Address()) {
				t.Fatal("random condition must not be present")
			}
		})
	}
}

func TestCtxAuth(t *testing.T) {
	conds := []weave.Condition{
		NewCondition(),
		NewCondition(),
	}

	a := CtxAuth{Key: "auth"}
	ctx := a.SetConditions(context.Background(), conds...)

	if got := a.GetConditions(ctx); !reflect.DeepEqual(got, conds) {
		t.Fatalf("unexpected conditions: %v", got)
	}
	for i, c := range conds {
		if !a.HasAddress(ctx, c.Address()) {
			t.Errorf("condition %d (%s) address should be present", i, c)
		}
	}
	if a.HasAddress(ctx, NewCondition().Address()) {
		t.Fatal("random condition must not be present")
	}

	other := CtxAuth{Key: "other"}
	if got := other.GetConditions(ctx); got != nil {
		t.Fatalf("different key must not see conditions: %v", got)
	}
	if got := a.GetConditions(context.Background()); got != nil {
		t.Fatalf("empty context must have no conditions: %v", got)
	}
}

func TestTxCodec(t *testing.T) {
	var empty Tx
	if _, err := empty.Marshal(); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %+v", err)
	}

	tx := Tx{Msg: &Msg{RoutePath: "ballot/vote", Serialized: []byte("payload")}}
	raw, err := tx.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	var loaded Tx
	if err := loaded.Unmarshal(raw); err != nil {
		t.Fatalf("cannot unmarshal: %s", err)
	}
	msg, _ := loaded.GetMsg()
	if got, _ := msg.Marshal(); string(got) != "payload" {
		t.Fatalf("unexpected payload %q", got)
	}
}
