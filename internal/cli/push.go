package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "push",
		Short:         "Push the local cart to the remote service now",
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

			app.store.Flush(ctx)

			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(newCartView(app.store.Items()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d items.\n", app.store.Count())
			return nil
		},
	}
}
