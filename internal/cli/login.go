package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store a bearer credential and reconcile with the remote cart",
		Long: `Store a bearer credential and reconcile with the remote cart.

After the credential is saved the cart reloads from the remote service:
a non-empty remote cart wins, while a guest cart built before login is
pushed upstream into the account.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.close()

			ctx := cmd.Context()
			if err := app.local.SetToken(ctx, args[0]); err != nil {
				return WrapExitError(ExitCommandError, "storing credential", err)
			}

			app.store.ReloadFromRemote(ctx)

			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(newCartView(app.store.Items()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			renderCartText(cmd.OutOrStdout(), app.store.Items())
			return nil
		},
	}
}
