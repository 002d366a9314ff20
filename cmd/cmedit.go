package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ranfeat/internal/cli"
	"ranfeat/internal/cmedit"
)

// cmeditFormat maps --output onto a cmedit format. Table output means
// annotated text.
func cmeditFormat(output string) (cmedit.Format, error) {
	switch output {
	case "", "table", "wide":
		return cmedit.FormatText, nil
	}
	f, err := cmedit.ParseFormat(output)
	if err != nil {
		return "", &cli.UsageError{Message: err.Error()}
	}
	return f, nil
}

func newCmeditCmd(o *globalOptions) *cobra.Command {
	var site, collection, modeName string
	cmd := &cobra.Command{
		Use:   "cmedit QUERY",
		Short: "Generate cmedit commands for a feature",
		Long: `Generate ENM cmedit commands for a feature: parameter reads grouped by MO
class, parameter updates, activation, deactivation and a state check.

Output formats: table (annotated text), markdown, script (bash) and json.

Examples:
  ranfeat cmedit CA
  ranfeat cmedit CA --site ERBS_01 --mode activate -o script
  ranfeat cmedit CA --collection Sweden --mode get`,
		Args: minArgs(1, "a feature"),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := cmedit.ParseMode(modeName)
			if err != nil {
				return &cli.UsageError{Message: err.Error()}
			}
			format, err := cmeditFormat(o.outputFormat())
			if err != nil {
				return err
			}

			v, err := o.view()
			if err != nil {
				return err
			}
			key, _, err := resolve(v, args)
			if err != nil {
				return err
			}
			rec, _ := v.Snapshot.Get(key)

			scope := o.cmeditScope(site, collection)
			gen := cmedit.NewGenerator(scope)
			set := gen.Commands(key, rec).Only(mode)
			if set.Empty() {
				o.stderrNotice(cmd, cli.FormatWarning(fmt.Sprintf("No %s commands for %s", mode, rec.Name)))
			}
			return gen.Render(cmd.OutOrStdout(), set, format, cmedit.NewHeader(scope))
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "Site name (default from config)")
	cmd.Flags().StringVar(&collection, "collection", "", "Node collection (overrides --site)")
	cmd.Flags().StringVar(&modeName, "mode", string(cmedit.ModeAll), "Commands to emit: get, set, activate, deactivate, verify or all")
	return cmd
}
