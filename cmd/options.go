package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ranfeat/internal/catalog"
	"ranfeat/internal/cli"
	"ranfeat/internal/cmedit"
	"ranfeat/internal/config"
	"ranfeat/internal/feature"
	"ranfeat/internal/formatting"
	"ranfeat/internal/search"
	"ranfeat/pkg/logging"
)

// globalOptions carries the persistent flags and the loaded configuration
// to every command.
type globalOptions struct {
	flags cli.CommandFlags
	cfg   config.RanfeatConfig
}

// setup loads the configuration and initializes logging. It runs before
// every command.
func (o *globalOptions) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(o.flags.ConfigPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	levelName := cfg.Logging.Level
	if o.flags.LogLevel != "" {
		levelName = o.flags.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return &cli.UsageError{Message: err.Error()}
	}
	if o.flags.Debug {
		level = logging.LevelDebug
	}

	format := logging.Format(cfg.Logging.Format)
	if o.flags.LogFormat != "" {
		format = logging.Format(strings.ToLower(o.flags.LogFormat))
	}
	if format != logging.FormatText && format != logging.FormatJSON {
		return cli.Usagef("unknown log format %q (valid: text, json)", format)
	}
	logging.Init(level, format, cmd.ErrOrStderr())
	logging.Debug("CLI", "Using configuration from %s", o.flags.ConfigPath)
	return nil
}

// snapshotDir is the feature index location after flag, environment and
// config precedence.
func (o *globalOptions) snapshotDir() string {
	return cli.ResolveSnapshotDir(o.flags.SnapshotDir, o.cfg)
}

// openCatalog loads the feature index. A missing index becomes a
// SnapshotMissingError.
func (o *globalOptions) openCatalog() (*catalog.Catalog, error) {
	dir := o.snapshotDir()
	c, err := catalog.Open(dir)
	if err != nil {
		return nil, cli.ClassifySnapshotError(dir, err)
	}
	if skipped := c.View().Snapshot.Skipped(); len(skipped) > 0 {
		logging.Debug("CLI", "%d dependency entries skipped while loading %s", len(skipped), dir)
	}
	return c, nil
}

// view loads the index and returns its only generation.
func (o *globalOptions) view() (*catalog.View, error) {
	c, err := o.openCatalog()
	if err != nil {
		return nil, err
	}
	return c.View(), nil
}

func (o *globalOptions) formatterOptions() (formatting.Options, error) {
	return o.flags.FormatterOptions(o.cfg.Output)
}

// write renders doc to the command output.
func (o *globalOptions) write(cmd *cobra.Command, doc *formatting.Document) error {
	opts, err := o.formatterOptions()
	if err != nil {
		return err
	}
	return formatting.Write(cmd.OutOrStdout(), doc, opts)
}

// searchOptions maps the search section of the config onto the searcher.
func (o *globalOptions) searchOptions() search.Options {
	return search.Options{
		Limit:            o.cfg.Search.Limit,
		FuzzyThreshold:   o.cfg.Search.FuzzyThreshold,
		AcronymThreshold: o.cfg.Search.AcronymThreshold,
	}
}

// cmeditScope combines the --site and --collection flags with the cmedit
// section of the config. Flags win.
func (o *globalOptions) cmeditScope(site, collection string) cmedit.Scope {
	scope := cmedit.Scope{Site: o.cfg.Cmedit.Site, Collection: o.cfg.Cmedit.Collection}
	if site != "" {
		scope.Site, scope.Collection = site, ""
	}
	if collection != "" {
		scope.Collection = collection
	}
	return scope
}

// outputFormat is the raw --output value, falling back to the config.
func (o *globalOptions) outputFormat() string {
	if o.flags.OutputFormat != "" {
		return strings.ToLower(o.flags.OutputFormat)
	}
	return strings.ToLower(o.cfg.Output.Format)
}

// resolve looks up one feature. Arguments are joined so that names with
// spaces need no quoting.
func resolve(v *catalog.View, args []string) (feature.Key, string, error) {
	query := strings.Join(args, " ")
	key, ok := v.Engine.Resolve(query)
	if !ok {
		return "", query, fmt.Errorf("feature %q not found in %s", query, v.Snapshot.Path())
	}
	return key, query, nil
}

// minArgs rejects fewer than n positional arguments with a usage error.
func minArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return cli.Usagef("%s requires %s\nusage: %s", cmd.Name(), what, cmd.UseLine())
		}
		return nil
	}
}

// noArgs rejects positional arguments with a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return cli.Usagef("%s takes no arguments, got %q", cmd.Name(), args)
	}
	return nil
}

// maxArgs rejects more than n positional arguments with a usage error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return cli.Usagef("%s accepts at most %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// stderrNotice prints a status line to stderr unless quiet.
func (o *globalOptions) stderrNotice(cmd *cobra.Command, msg string) {
	if o.flags.Quiet {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
}
