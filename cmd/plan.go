package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"ranfeat/internal/cli"
	"ranfeat/internal/cmedit"
	"ranfeat/internal/dependency"
)

// formatScript selects a cmedit activation script instead of a document.
const formatScript = "script"

func newOrderCmd(o *globalOptions) *cobra.Command {
	var site, collection string
	cmd := &cobra.Command{
		Use:   "order QUERY...",
		Short: "Compute the activation order for features",
		Long: `Order the requested features and all of their prerequisites so that every
feature comes after the features it requires. Queries that do not resolve
are reported and skipped. Use -o script for a cmedit activation script.

Examples:
  ranfeat order CA "Uplink Carrier Aggregation"
  ranfeat order CA -o script --site ERBS_01`,
		Args: minArgs(1, "at least one feature"),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			plan := v.Engine.Order(args)
			if len(plan.Unresolved) > 0 {
				o.stderrNotice(cmd, cli.FormatWarning("Not found: "+strings.Join(plan.Unresolved, ", ")))
			}

			if o.outputFormat() == formatScript {
				scope := o.cmeditScope(site, collection)
				gen := cmedit.NewGenerator(scope)
				return gen.RenderPlan(cmd.OutOrStdout(), gen.Plan(plan, v.Snapshot), cmedit.FormatScript, cmedit.NewHeader(scope))
			}
			return o.write(cmd, cli.PlanDocument(plan))
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "Site name for -o script")
	cmd.Flags().StringVar(&collection, "collection", "", "Node collection for -o script (overrides --site)")
	return cmd
}

func newValidateCmd(o *globalOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate QUERY QUERY...",
		Short: "Check whether features can be active together",
		Long: `Check a set of features for conflicts among each other and for missing
prerequisites. Conflicts exit with code 2. Missing prerequisites and unknown
features are warnings, which exit with code 3 under --strict.`,
		Args: minArgs(2, "at least two features"),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			res := v.Engine.Validate(args)
			if err := o.write(cmd, cli.ValidationDocument(res)); err != nil {
				return err
			}
			return validationOutcome(res, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	return cmd
}

// validationOutcome maps a validation result onto the command error that
// selects the exit code.
func validationOutcome(res *dependency.ValidationResult, strict bool) error {
	switch {
	case res.Status == dependency.StatusConflict:
		return &cli.ConflictError{Pairs: len(res.ConflictPairs)}
	case res.Status == dependency.StatusUnresolved:
		return errors.New("none of the given features was found")
	case strict && len(res.Warnings)+len(res.Unresolved) > 0:
		return &cli.WarningsError{Count: len(res.Warnings) + len(res.Unresolved)}
	}
	return nil
}
