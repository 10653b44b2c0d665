package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/cartsync/internal/cartstore"
	"github.com/roach88/cartsync/internal/config"
	"github.com/roach88/cartsync/internal/localstore"
	"github.com/roach88/cartsync/internal/remote"
)

// app is the wired session behind a single CLI invocation: config, local
// store, remote client, cart store. The local store doubles as the
// credential source for both the remote client and the cart store.
type app struct {
	cfg   config.Config
	local *localstore.Store
	store *cartstore.Store
}

// openApp loads config, opens the local store, and hydrates the cart
// store. Callers must close() the returned app.
func openApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "loading config", err)
		}
		cfg = loaded
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "creating storage directory", err)
		}
	}
	local, err := localstore.Open(cfg.Storage.Path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening local store", err)
	}

	rc := remote.NewClient(cfg.Remote.BaseURL, local, cfg.Timeout())
	store := cartstore.New(local, rc, local,
		cartstore.WithDebounceWindow(cfg.DebounceWindow()),
		cartstore.WithLogger(logger),
	)
	store.Init(cmd.Context())

	return &app{cfg: cfg, local: local, store: store}, nil
}

func (a *app) close() {
	a.store.Close()
	a.local.Close()
}

// newLogger builds the session logger. Diagnostics go to stderr so JSON
// output on stdout stays parseable; verbose raises the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatter builds the output formatter for a command invocation.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
