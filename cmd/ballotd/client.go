package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	weave "github.com/iov-one/weave-ballot"
	ballotd "github.com/iov-one/weave-ballot/cmd/ballotd/app"
	"github.com/iov-one/weave-ballot/client"
	"github.com/iov-one/weave-ballot/crypto"
	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/orm"
	"github.com/iov-one/weave-ballot/x/ballot"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// connection holds the flags shared by all commands talking to a node.
type connection struct {
	home    *string
	node    string
	chainID string
	keyFile string
}

func (c *connection) register(fs *pflag.FlagSet, signing bool) {
	fs.StringVar(&c.node, "node", "http://localhost:26657", "tendermint node RPC address")
	if signing {
		fs.StringVar(&c.chainID, "chain-id", "", "chain ID the transaction is signed for")
		fs.StringVar(&c.keyFile, "key", "", "private key file, defaults to <home>/key.priv")
	}
}

func (c *connection) ballots() *client.BallotClient {
	return client.NewBallotClient(client.NewHTTPClient(c.node), c.chainID, func() client.SignableTx {
		return &ballotd.Tx{}
	})
}

func (c *connection) signer() (*crypto.PrivateKey, error) {
	if c.chainID == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "chain-id flag")
	}
	return crypto.LoadPrivateKey(keyPath(*c.home, c.keyFile))
}

// keyPath returns keyFile, or the default key file under home if it is empty.
func keyPath(home, keyFile string) string {
	if keyFile != "" {
		return keyFile
	}
	return filepath.Join(home, "key.priv")
}

// parseBallotID accepts the numeric ballot sequence.
func parseBallotID(raw string) ([]byte, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return nil, errors.Wrapf(errors.ErrInput, "invalid ballot id %q", raw)
	}
	return orm.EncodeSequence(n), nil
}

func formatBallotID(id []byte) string {
	n, err := orm.DecodeSequence(id)
	if err != nil {
		return fmt.Sprintf("%X", id)
	}
	return strconv.FormatInt(n, 10)
}

func parseProposal(raw string) (int32, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(errors.ErrInput, "invalid proposal index %q", raw)
	}
	return int32(n), nil
}

func keygenCmd(home *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new private key and print its address",
		Args:  cobra.NoArgs,
	}
	keyFile := cmd.Flags().String("key", "", "private key file, defaults to <home>/key.priv")
	force := cmd.Flags().Bool("force", false, "overwrite an existing key file")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path := keyPath(*home, *keyFile)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		key := crypto.GenPrivKeyEd25519()
		if err := crypto.SavePrivateKey(key, path, *force); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey().Address())
		return nil
	}
	return cmd
}

func deployCmd(home *string) *cobra.Command {
	conn := connection{home: home}
	cmd := &cobra.Command{
		Use:   "deploy <proposal name>...",
		Short: "Create a new ballot chaired by the key owner",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := conn.signer()
			if err != nil {
				return err
			}
			id, err := conn.ballots().Deploy(context.Background(), key, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatBallotID(id))
			return nil
		},
	}
	conn.register(cmd.Flags(), true)
	return cmd
}

func giveRightCmd(home *string) *cobra.Command {
	conn := connection{home: home}
	cmd := &cobra.Command{
		Use:   "give-right <ballot id> <voter address>",
		Short: "Give the right to vote to an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBallotID(args[0])
			if err != nil {
				return err
			}
			voter, err := weave.ParseAddress(args[1])
			if err != nil {
				return err
			}
			key, err := conn.signer()
			if err != nil {
				return err
			}
			return conn.ballots().GiveRightToVote(context.Background(), key, id, voter)
		},
	}
	conn.register(cmd.Flags(), true)
	return cmd
}

func delegateCmd(home *string) *cobra.Command {
	conn := connection{home: home}
	cmd := &cobra.Command{
		Use:   "delegate <ballot id> <address>",
		Short: "Delegate the vote to another voter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBallotID(args[0])
			if err != nil {
				return err
			}
			to, err := weave.ParseAddress(args[1])
			if err != nil {
				return err
			}
			key, err := conn.signer()
			if err != nil {
				return err
			}
			final, err := conn.ballots().Delegate(context.Background(), key, id, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), final)
			return nil
		},
	}
	conn.register(cmd.Flags(), true)
	return cmd
}

func voteCmd(home *string) *cobra.Command {
	conn := connection{home: home}
	cmd := &cobra.Command{
		Use:   "vote <ballot id> <proposal index>",
		Short: "Vote for a proposal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBallotID(args[0])
			if err != nil {
				return err
			}
			proposal, err := parseProposal(args[1])
			if err != nil {
				return err
			}
			key, err := conn.signer()
			if err != nil {
				return err
			}
			return conn.ballots().Vote(context.Background(), key, id, proposal)
		},
	}
	conn.register(cmd.Flags(), true)
	return cmd
}

func configureCmd(home *string) *cobra.Command {
	var patch ballot.Configuration
	conn := connection{home: home}
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Update the ballot configuration, only set values are changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := conn.signer()
			if err != nil {
				return err
			}
			return conn.ballots().UpdateConfiguration(context.Background(), key, &patch)
		},
	}
	conn.register(cmd.Flags(), true)
	cmd.Flags().Int32Var(&patch.MaxProposals, "max-proposals", 0, "maximum number of proposals per ballot")
	cmd.Flags().Int32Var(&patch.MaxNameLength, "max-name-length", 0, "maximum proposal name length in bytes")
	cmd.Flags().Int32Var(&patch.MaxDelegationDepth, "max-delegation-depth", 0, "maximum number of delegation hops")
	return cmd
}

func winnerCmd() *cobra.Command {
	var conn connection
	cmd := &cobra.Command{
		Use:   "winner <ballot id>",
		Short: "Print the name of the winning proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBallotID(args[0])
			if err != nil {
				return err
			}
			name, err := conn.ballots().WinnerName(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	conn.register(cmd.Flags(), false)
	return cmd
}

func proposalCmd() *cobra.Command {
	var conn connection
	cmd := &cobra.Command{
		Use:   "proposal <ballot id> [index]",
		Short: "Print one or all proposals of a ballot",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBallotID(args[0])
			if err != nil {
				return err
			}
			var proposals []*ballot.Proposal
			if len(args) == 2 {
				index, err := parseProposal(args[1])
				if err != nil {
					return err
				}
				p, err := conn.ballots().Proposal(id, index)
				if err != nil {
					return err
				}
				proposals = append(proposals, p)
			} else if proposals, err = conn.ballots().Proposals(id); err != nil {
				return err
			}
			for _, p := range proposals {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%s\n", p.Index, p.VoteCount, p.Name)
			}
			return nil
		},
	}
	conn.register(cmd.Flags(), false)
	return cmd
}

func voterCmd() *cobra.Command {
	var conn connection
	cmd := &cobra.Command{
		Use:   "voter <ballot id> <address>",
		Short: "Print the voter state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBallotID(args[0])
			if err != nil {
				return err
			}
			addr, err := weave.ParseAddress(args[1])
			if err != nil {
				return err
			}
			v, err := conn.ballots().Voter(id, addr)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "weight:   %d\n", v.Weight)
			fmt.Fprintf(out, "voted:    %t\n", v.Voted)
			if len(v.Delegate) != 0 {
				fmt.Fprintf(out, "delegate: %s\n", v.Delegate)
			} else if v.Voted {
				fmt.Fprintf(out, "vote:     %d\n", v.Vote)
			}
			return nil
		},
	}
	conn.register(cmd.Flags(), false)
	return cmd
}

func chairpersonCmd() *cobra.Command {
	var conn connection
	cmd := &cobra.Command{
		Use:   "chairperson <ballot id>",
		Short: "Print the address of the ballot chairperson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBallotID(args[0])
			if err != nil {
				return err
			}
			chair, err := conn.ballots().Chairperson(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), chair)
			return nil
		},
	}
	conn.register(cmd.Flags(), false)
	return cmd
}
