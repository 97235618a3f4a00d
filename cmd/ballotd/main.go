package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "ballot")

	if err := rootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd(logger log.Logger) *cobra.Command {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".ballot")

	root := &cobra.Command{
		Use:          "ballotd",
		Short:        "Delegated voting ballot node and client",
		SilenceUsage: true,
	}
	home := root.PersistentFlags().String(flagHome, defaultHome, "directory to store files under")

	root.AddCommand(
		initCmd(logger, home),
		startCmd(logger, home),
		validateCmd(),
		keygenCmd(home),
		deployCmd(home),
		giveRightCmd(home),
		delegateCmd(home),
		voteCmd(home),
		configureCmd(home),
		winnerCmd(),
		proposalCmd(),
		voterCmd(),
		chairpersonCmd(),
		versionCmd(),
	)
	return root
}
