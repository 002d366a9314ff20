package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ranfeat/internal/cli"
	"ranfeat/internal/extract"
	"ranfeat/pkg/logging"
)

func newBuildCmd(o *globalOptions) *cobra.Command {
	var (
		source, out      string
		workers          int
		include, exclude []string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the feature index from feature documentation",
		Long: `Extract feature records from a tree of markdown feature descriptions and
write the JSON index read by every other command: features.json, the acronym,
CXC, parameter, counter and release indexes, and dependency_graph.json.

Documents without a FAJ identity are skipped and counted.

Examples:
  ranfeat build --source ./docs/features
  ranfeat build --source ./docs --out ./references --workers 16 --exclude "drafts/**"`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := extract.Options{
				SourceDir: firstSet(source, o.cfg.Build.SourceDir),
				OutputDir: firstSet(out, o.cfg.Build.OutputDir, o.snapshotDir()),
				Workers:   o.cfg.Build.Workers,
				Include:   o.cfg.Build.Include,
				Exclude:   o.cfg.Build.Exclude,
			}
			if opts.SourceDir == "" {
				return cli.Usagef("build requires --source (or build.sourceDir in the config file)")
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if len(include) > 0 {
				opts.Include = include
			}
			if len(exclude) > 0 {
				opts.Exclude = exclude
			}
			if opts.Workers < 1 {
				return cli.Usagef("--workers must be at least 1, got %d", opts.Workers)
			}

			format, err := o.formatterOptions()
			if err != nil {
				return err
			}
			logging.Info("Build", "Extracting features from %s with %d workers", opts.SourceDir, opts.Workers)
			spin := cli.StartSpinner(o.flags.Quiet || format.Format.IsStructured(),
				fmt.Sprintf("Extracting features from %s", opts.SourceDir))

			res, err := extract.NewBuilder(opts).Build(cmd.Context())
			if err != nil {
				cli.StopSpinner(spin, "")
				return fmt.Errorf("index build failed: %w", err)
			}
			cli.StopSpinner(spin, cli.FormatSuccess(fmt.Sprintf("Extracted %d features from %d documents", res.Features, res.Documents)))
			return o.write(cmd, cli.BuildDocument(res, opts.OutputDir))
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Directory with feature documents (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "Output directory for the index (default: snapshot directory)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of documents parsed in parallel (default from config)")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns of documents to include (default **/*.md)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns of documents to skip")
	return cmd
}

// firstSet returns the first non-empty value.
func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
