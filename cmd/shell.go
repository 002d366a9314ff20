package cmd

import (
	"github.com/spf13/cobra"

	"ranfeat/internal/formatting"
	"ranfeat/internal/shell"
)

func newShellCmd(o *globalOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell over the feature index",
		Long: `Load the feature index once and query it interactively with tab completion
and command history. With --watch the index is reloaded automatically when
"ranfeat build" rewrites it.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.openCatalog()
			if err != nil {
				return err
			}
			out, err := o.formatterOptions()
			if err != nil {
				return err
			}
			if out.Format == formatting.FormatTable {
				out.Boxed = true
			}
			sh := shell.New(c, shell.Options{
				Output:   out,
				Search:   o.searchOptions(),
				Watch:    watch || o.cfg.Snapshot.Watch,
				Debounce: o.cfg.Snapshot.Debounce,
			})
			return sh.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the index when it changes on disk")
	return cmd
}
