package cli

import (
	"github.com/spf13/cobra"
)

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Re-hydrate the cart from the remote service",
		Long: `Re-hydrate the cart from the remote service.

A non-empty remote cart replaces the local one. An empty remote cart
with local items pushes the local cart upstream instead, so nothing is
silently discarded. Requires being signed in.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.close()

			ctx := cmd.Context()
			if _, ok := app.local.Token(ctx); !ok {
				return NewExitError(ExitFailure, "not signed in; run 'cartsync login' first")
			}

			app.store.ReloadFromRemote(ctx)

			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(newCartView(app.store.Items()))
			}
			renderCartText(cmd.OutOrStdout(), app.store.Items())
			return nil
		},
	}
}
