package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ranfeat/internal/config"
	"ranfeat/internal/formatting"
)

// CommandFlags holds the global flag values shared by every command.
type CommandFlags struct {
	// OutputFormat overrides output.format from the config file
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses titles, notes and progress indicators
	Quiet bool
	// Debug enables debug logging
	Debug bool
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
	// SnapshotDir overrides snapshot.dir
	SnapshotDir string
	// LogLevel overrides logging.level from the config file
	LogLevel string
	// LogFormat selects text or json logs
	LogFormat string
}

// RegisterCommonFlags registers the global flags on cmd.
//
// The registered flags are:
//   - --output/-o: Output format (table, wide, json, yaml, markdown, csv)
//   - --no-headers: Suppress header row in table output
//   - --quiet/-q: Suppress non-essential output
//   - --debug: Enable debug logging
//   - --config-path: Configuration directory
//   - --snapshot-dir: Feature index directory (env: RANFEAT_SNAPSHOT_DIR)
//   - --log-level: Log level (debug, info, warn, error)
//   - --log-format: Log format (text, json)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", "", "Output format (table, wide, json, yaml, markdown, csv)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", config.GetDefaultConfigPath(), "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.SnapshotDir, "snapshot-dir", "", "Feature index directory (env: "+config.EnvSnapshotDir+")")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "Log format (text, json)")
}

// FormatterOptions combines the flags with the output section of the
// config. The flag wins over the config file.
func (f *CommandFlags) FormatterOptions(cfg config.OutputConfig) (formatting.Options, error) {
	name := f.OutputFormat
	if name == "" {
		name = cfg.Format
	}
	format, err := formatting.ParseFormat(name)
	if err != nil {
		return formatting.Options{}, &UsageError{Message: err.Error()}
	}
	return formatting.Options{
		Format:    format,
		NoHeaders: f.NoHeaders,
		Quiet:     f.Quiet,
		Color:     cfg.Color && colorTerminal(os.Stdout),
	}, nil
}

// colorTerminal reports whether colors should be written to out.
func colorTerminal(out *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
}
