package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/cartsync/internal/cart"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name      string
	Price     string
	SalePrice string
	Image     string
	Qty       int
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Long: `Add a product to the cart.

Adding a product already in the cart grows its quantity instead of
creating a second line.

Example:
  cartsync add widget-01 --name "Widget" --price 9.99 --qty 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "product display name")
	cmd.Flags().StringVar(&opts.Price, "price", "", "unit price, e.g. 9.99")
	cmd.Flags().StringVar(&opts.SalePrice, "sale-price", "", "discounted unit price, if on sale")
	cmd.Flags().StringVar(&opts.Image, "image", "", "product image reference")
	cmd.Flags().IntVar(&opts.Qty, "qty", 1, "quantity to add")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("price")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions, productID string) error {
	price, err := decimal.NewFromString(opts.Price)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --price %q", opts.Price), err)
	}
	if price.IsNegative() {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --price %q: must not be negative", opts.Price))
	}

	item := cart.LineItem{
		ProductID: productID,
		Name:      opts.Name,
		UnitPrice: price,
		ImageRef:  opts.Image,
	}
	if opts.SalePrice != "" {
		sale, err := decimal.NewFromString(opts.SalePrice)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --sale-price %q", opts.SalePrice), err)
		}
		item.SalePrice = sale
	}

	app, err := openApp(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.close()

	ctx := cmd.Context()
	app.store.AddItem(ctx, item, opts.Qty)
	app.store.Flush(ctx)

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(newCartView(app.store.Items()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d x %s\n", max(1, opts.Qty), opts.Name)
	renderCartText(cmd.OutOrStdout(), app.store.Items())
	return nil
}
