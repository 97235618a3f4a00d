package app

import (
	weave "github.com/iov-one/weave-ballot"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return chainInitializer(inits)
}

type chainInitializer []weave.Initializer

var _ weave.Initializer = chainInitializer(nil)

// FromGenesis passes the options to every initializer in order. The first
// failure stops the process.
func (c chainInitializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	for _, init := range c {
		if err := init.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
