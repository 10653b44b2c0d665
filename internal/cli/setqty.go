package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSetQtyCommand creates the set-qty command.
func NewSetQtyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <product-id> <quantity>",
		Short: "Set the quantity of a line item",
		Long: `Set the quantity of a line item.

Quantities below 1 are clamped to 1; use remove to drop a line. Setting
the quantity of a product not in the cart does nothing.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q", args[1]), err)
			}

			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.close()

			ctx := cmd.Context()
			app.store.UpdateQuantity(ctx, args[0], qty)
			app.store.Flush(ctx)

			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(newCartView(app.store.Items()))
			}
			renderCartText(cmd.OutOrStdout(), app.store.Items())
			return nil
		},
	}
}
