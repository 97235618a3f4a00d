package main

import (
	"encoding/json"
	"fmt"

	weave "github.com/iov-one/weave-ballot"
	ballotd "github.com/iov-one/weave-ballot/cmd/ballotd/app"
	"github.com/iov-one/weave-ballot/commands/server"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/x/ballot"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const flagHome = "home"

// initCmd and startCmd read home when they run, after flags are parsed.
func initCmd(logger log.Logger, home *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <owner> [proposal names...]",
		Short: "Initialize app options in the genesis file",
		Long: `Write the application state to the genesis file created by
"tendermint init". The owner can update the ballot configuration. When
proposal names are given, a ballot chaired by the owner is created in
the genesis.`,
		Args: cobra.MinimumNArgs(1),
	}
	ignore := cmd.Flags().BoolP("ignore", "i", false, "overwrite an existing app_state")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if *ignore {
			args = append([]string{"-i"}, args...)
		}
		return server.InitCmd(genOptions, logger, *home, args)
	}
	return cmd
}

// genOptions expects the owner address followed by optional proposal names.
func genOptions(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "owner address")
	}
	owner, err := weave.ParseAddress(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "owner address")
	}
	return ballotd.GenInitOptions(owner, args[1:])
}

func startCmd(logger log.Logger, home *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
	}
	bind := cmd.Flags().String("bind", "tcp://localhost:26658", "address server listens on")
	debug := cmd.Flags().Bool("debug", false, "call stack returned on error")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		args = []string{"--bind", *bind}
		if *debug {
			args = append(args, "--debug")
		}
		return server.StartCmd(ballotd.GenerateApp, logger, *home, args)
	}
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis file>...",
		Short: "Check that the app state of genesis files can be loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.ValidateGenesis(&ballot.Initializer{}, args)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), weave.Version())
		},
	}
}
