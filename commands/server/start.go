package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/weave-ballot/errors"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartFlags are the options of the start command.
type StartFlags struct {
	Bind  string
	Debug bool
}

// ParseStartFlags reads the start command line options.
func ParseStartFlags(args []string) (StartFlags, error) {
	var f StartFlags
	startFlags := pflag.NewFlagSet("start", pflag.ContinueOnError)
	startFlags.StringVar(&f.Bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.BoolVar(&f.Debug, flagDebug, false, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return f, errors.Wrap(errors.ErrInput, err.Error())
	}
	return f, nil
}

// StartCmd initializes the application, and serves it over the ABCI
// socket until the process receives an interrupt or terminate signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	f, err := ParseStartFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			logger.Info("Captured signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return Serve(ctx, gen, logger, home, f)
}

// Serve runs the ABCI socket server until the context is cancelled.
func Serve(ctx context.Context, gen AppGenerator, logger log.Logger, home string, f StartFlags) error {
	app, err := gen(home, logger, f.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", f.Bind)
	svr, err := server.NewServer(f.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "start server: %s", err)
	}

	<-ctx.Done()
	if err := svr.Stop(); err != nil {
		return errors.Wrapf(errors.ErrState, "stop server: %s", err)
	}
	return nil
}
