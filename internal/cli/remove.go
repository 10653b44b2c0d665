package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <product-id>",
		Short:         "Remove a product from the cart",
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
			app.store.RemoveItem(ctx, args[0])
			app.store.Flush(ctx)

			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(newCartView(app.store.Items()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			renderCartText(cmd.OutOrStdout(), app.store.Items())
			return nil
		},
	}
}
