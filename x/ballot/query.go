package ballot

import (
	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/orm"
)

// RegisterQuery registers the ballot buckets and the computed views.
//
//   /ballots          ballot by ID
//   /proposals        proposal by ballot ID and big endian index
//   /voters           voter by ballot ID and address, zero value if absent
//   /ballots/winner   winning proposal by ballot ID
func RegisterQuery(qr weave.QueryRouter) {
	ctrl := NewController()
	ctrl.ballots.Register("ballots", qr)
	ctrl.proposals.Register("proposals", qr)
	qr.Register("/voters", voterQuery{ctrl: ctrl})
	qr.Register("/ballots/winner", winnerQuery{ctrl: ctrl})
}

type voterQuery struct {
	ctrl Controller
}

func (q voterQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		if len(data) <= 8 {
			return nil, errors.Wrap(errors.ErrInput, "voter key must be ballot id followed by an address")
		}
		id, addr := data[:8], weave.Address(data[8:])
		v, err := q.ctrl.Voter(db, id, addr)
		if err != nil {
			if errors.ErrNotFound.Is(err) {
				return nil, nil
			}
			return nil, err
		}
		raw, err := v.Marshal()
		if err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		return []weave.Model{weave.Pair(data, raw)}, nil
	case weave.PrefixQueryMod:
		return orm.NewBucket(voterBucketName, orm.NewSimpleObj(nil, &Voter{})).Query(db, mod, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

type winnerQuery struct {
	ctrl Controller
}

func (q winnerQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	p, err := q.ctrl.WinningProposal(db, data)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil
		}
		return nil, err
	}
	w := Winner{Index: p.Index, Name: p.Name, VoteCount: p.VoteCount}
	raw, err := w.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []weave.Model{weave.Pair(data, raw)}, nil
}
