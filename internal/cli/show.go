package cli

import (
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the current cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.close()

			items := app.store.Items()
			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(newCartView(items))
			}
			renderCartText(cmd.OutOrStdout(), items)
			return nil
		},
	}
}
