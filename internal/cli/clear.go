package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Long: `Empty the cart.

The local snapshot is removed and, when signed in, the remote cart is
deleted immediately. No flush follows; clearing is synchronous.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.close()

			app.store.ClearCart(cmd.Context())

			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(newCartView(app.store.Items()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}
}
