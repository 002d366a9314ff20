package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"ranfeat/internal/cli"
	"ranfeat/internal/report"
)

// defaultAuditTop is the length of the ranking lists in an audit.
const defaultAuditTop = 10

func newCompareCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare QUERY QUERY...",
		Short: "Compare features side by side",
		Long: `Compare two or more features: identity, access types, licensing,
parameter and counter counts, latest release, and which prerequisites and
parameters they share.`,
		Args: minArgs(2, "at least two features"),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			c, err := report.Compare(v.Engine, args)
			if errors.Is(err, report.ErrTooFewFeatures) {
				return &cli.UsageError{Message: err.Error()}
			}
			if err != nil {
				return err
			}
			return o.write(cmd, cli.CompareDocument(c))
		},
	}
}

func newAuditCmd(o *globalOptions) *cobra.Command {
	var (
		opts cli.AuditOptions
		top  int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report data-quality gaps in the feature index",
		Long: `Audit the feature index for missing fields, orphaned features, dangling
references and prerequisite cycles, and summarise access types, licensing and
parameter counts.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 1 {
				return cli.Usagef("--top must be at least 1, got %d", top)
			}
			v, err := o.view()
			if err != nil {
				return err
			}
			return o.write(cmd, cli.AuditDocument(report.NewAudit(v.Graph, top), opts))
		},
	}
	cmd.Flags().BoolVar(&opts.Gaps, "gaps", false, "List the features behind every gap")
	cmd.Flags().BoolVar(&opts.Orphans, "orphans", false, "List orphaned features and dangling references")
	cmd.Flags().IntVar(&top, "top", defaultAuditTop, "Length of the ranking lists")
	return cmd
}
