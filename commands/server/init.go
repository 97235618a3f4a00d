package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/weave-ballot/errors"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagIgnore  = "ignore"
)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will add the application state to the genesis file created by
// "tendermint init" under the given home directory. An already present
// application state is only overwritten when the ignore flag is set.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := pflag.NewFlagSet("init", pflag.ContinueOnError)
	initFlags.BoolVarP(&force, flagIgnore, "i", false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	doc, err := loadGenesis(genFile)
	if err != nil {
		return err
	}
	if _, ok := doc[appStateKey]; ok && !force {
		return errors.Wrapf(errors.ErrDuplicate, "%s already present in %s, use -i to overwrite", appStateKey, genFile)
	}

	// no app_options, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	doc[appStateKey] = options
	if err := saveGenesis(genFile, doc); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func loadGenesis(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", filename)
		}
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse %s: %s", filename, err)
	}
	return doc, nil
}

func saveGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
