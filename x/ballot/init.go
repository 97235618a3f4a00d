package ballot

import (
	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

type genesisBallot struct {
	Chairperson weave.Address `json:"chairperson"`
	Proposals   []string      `json:"proposals"`
}

// FromGenesis stores the extension configuration and creates all ballots
// declared under the "ballots" key. Missing configuration is not an error,
// the default configuration is used instead.
func (*Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	switch err := gconf.InitConfig(db, opts, PackageName, &Configuration{}); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "init config")
	}

	var ballots []genesisBallot
	if err := opts.ReadOptions("ballots", &ballots); err != nil {
		return errors.Wrapf(errors.ErrInput, "ballots: %s", err)
	}
	ctrl := NewController()
	for i, b := range ballots {
		if _, err := ctrl.CreateBallot(db, b.Chairperson, b.Proposals, 0); err != nil {
			return errors.Wrapf(err, "ballot #%d", i)
		}
	}
	return nil
}
