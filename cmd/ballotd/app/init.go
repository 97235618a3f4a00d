package app

import (
	"encoding/json"
	"path/filepath"

	weave "github.com/iov-one/weave-ballot"
	"github.com/iov-one/weave-ballot/app"
	"github.com/iov-one/weave-ballot/x/ballot"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions produces the genesis application state. The configuration
// is owned by the given address, which is also the chairperson of a ballot
// over all given proposal names. No ballot is created when no proposal
// names are given.
func GenInitOptions(owner weave.Address, proposals []string) (json.RawMessage, error) {
	conf := ballot.DefaultConfiguration()
	conf.Owner = owner

	type genesisBallot struct {
		Chairperson weave.Address `json:"chairperson"`
		Proposals   []string      `json:"proposals"`
	}
	ballots := []genesisBallot{}
	if len(proposals) > 0 {
		ballots = append(ballots, genesisBallot{Chairperson: owner, Proposals: proposals})
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			ballot.PackageName: conf,
		},
		"ballots": ballots,
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "ballot.db")
	}

	application, err := Application("ballotd", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(app.ChainInitializers(
		&ballot.Initializer{},
	))
	application.WithLogger(logger)
	return application, nil
}
