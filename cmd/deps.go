package cmd

import (
	"github.com/spf13/cobra"

	"ranfeat/internal/cli"
)

func newDepsCmd(o *globalOptions) *cobra.Command {
	var opts cli.DepsOptions
	cmd := &cobra.Command{
		Use:   "deps QUERY",
		Short: "Show the prerequisite tree of a feature",
		Long: `Show the prerequisites of a feature as a tree, or the features that depend
on it with --reverse. QUERY is a FAJ key, an acronym or part of a name.

Examples:
  ranfeat deps CA
  ranfeat deps "FAJ 121 4219" --depth 1
  ranfeat deps CA --reverse --recursive
  ranfeat deps CA --mermaid`,
		Args: minArgs(1, "a feature"),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			key, query, err := resolve(v, args)
			if err != nil {
				return err
			}
			return o.write(cmd, cli.DepsDocument(cli.NewDepsResult(v.Graph, query, key, opts)))
		},
	}
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Maximum tree depth (0 for unlimited)")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "Show dependents instead of prerequisites")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "With --reverse, include transitive dependents")
	cmd.Flags().BoolVar(&opts.Mermaid, "mermaid", false, "Render a Mermaid diagram")
	return cmd
}

func newConflictsCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts [QUERY]",
		Short: "List conflicting features",
		Long: `List the features that conflict with QUERY, or every conflicting pair in
the index when no feature is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return o.write(cmd, cli.ConflictsDocument(v.Graph.AllConflicts()))
			}
			key, _, err := resolve(v, args)
			if err != nil {
				return err
			}
			return o.write(cmd, cli.FeatureConflictsDocument(&cli.FeatureConflicts{
				Feature:   cli.Ref(v.Graph, key),
				Conflicts: cli.Refs(v.Graph, v.Graph.ConflictsOf(key)),
			}))
		},
	}
}

func newCyclesCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "Find prerequisite cycles",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			return o.write(cmd, cli.CyclesDocument(v.Graph, v.Graph.FindCycles()))
		},
	}
}

func newImpactCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "impact QUERY",
		Short: "Show what is affected by changing a feature",
		Long: `List every feature that depends on QUERY, directly or transitively, with
its distance, together with the conflicts and related features of QUERY.`,
		Args: minArgs(1, "a feature"),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			key, _, err := resolve(v, args)
			if err != nil {
				return err
			}
			return o.write(cmd, cli.ImpactDocument(v.Graph, v.Graph.Impact(key)))
		},
	}
}

func newStatsCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show feature index statistics",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.view()
			if err != nil {
				return err
			}
			return o.write(cmd, cli.StatsDocument(cli.NewStatsResult(v.Graph)))
		},
	}
}
