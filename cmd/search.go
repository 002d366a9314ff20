package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"ranfeat/internal/cli"
	"ranfeat/internal/search"
)

func newSearchCmd(o *globalOptions) *cobra.Command {
	var (
		q                        search.Query
		fuzzy, acronym, boolExpr bool
		limit                    int
	)
	cmd := &cobra.Command{
		Use:   "search [TEXT]",
		Short: "Search features by name, keyword, acronym or attribute",
		Long: `Search the feature index. TEXT is matched against feature names and falls
back to a keyword search over names, summaries, parameters and counters.
Filters narrow the result; every given filter has to match. Without TEXT the
filters alone select the features.

Examples:
  ranfeat search "carrier aggregation"
  ranfeat search aggregaton --fuzzy
  ranfeat search "uplink AND NOT nr" --boolean
  ranfeat search --param EUtranCellFDD.caEnabled
  ranfeat search carrier --access NR --release ">= 23.Q3"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := search.SelectMode(fuzzy, acronym, boolExpr)
			if err != nil {
				return &cli.UsageError{Message: err.Error()}
			}
			q.Mode = mode
			q.Text = strings.Join(args, " ")

			v, err := o.view()
			if err != nil {
				return err
			}
			opts := o.searchOptions()
			if cmd.Flags().Changed("limit") {
				opts.Limit = limit
			}
			results, err := search.New(v.Snapshot, opts).Run(q)
			if errors.Is(err, search.ErrEmptyQuery) {
				return &cli.UsageError{Message: err.Error()}
			}
			if err != nil {
				return err
			}
			return o.write(cmd, cli.SearchDocument(q.String(), results))
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Match names approximately")
	cmd.Flags().BoolVar(&acronym, "acronym", false, "Match acronyms")
	cmd.Flags().BoolVar(&boolExpr, "boolean", false, "Treat TEXT as an AND/OR/NOT keyword expression")
	cmd.Flags().StringVar(&q.Param, "param", "", "Filter by parameter (MOClass.attribute, * wildcards)")
	cmd.Flags().StringVar(&q.Counter, "counter", "", "Filter by PM counter (* wildcards)")
	cmd.Flags().StringVar(&q.MOClass, "mo", "", "Filter by MO class")
	cmd.Flags().StringVar(&q.Access, "access", "", "Filter by access type (LTE, NR, ...)")
	cmd.Flags().StringVar(&q.CXC, "cxc", "", "Filter by CXC activation code")
	cmd.Flags().StringVar(&q.Release, "release", "", "Filter by release tag or range, e.g. \">= 23.Q3\"")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (0 for unlimited, default from config)")
	return cmd
}
