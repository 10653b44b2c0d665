package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored bearer credential",
		Long: `Remove the stored bearer credential.

The local cart is kept; it simply stops syncing until the next login.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.local.DeleteToken(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "removing credential", err)
			}

			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success("signed out")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
