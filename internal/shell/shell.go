// Package shell implements the interactive ranfeat shell.
//
// The shell keeps one catalog loaded for the whole session. Every command
// takes the current catalog view once and answers from it, so a reload
// triggered by the reload command or by the snapshot watcher never shows a
// command a mix of old and new data.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"ranfeat/internal/catalog"
	"ranfeat/internal/cli"
	"ranfeat/internal/formatting"
	"ranfeat/internal/search"
	"ranfeat/pkg/logging"
)

const (
	promptPrefix         = "ranfeat"
	promptChevronUnicode = "»"
	promptChevronASCII   = ">"
)

// commandExecutionTimeout bounds a single command.
const commandExecutionTimeout = time.Minute

// errExit is returned by the exit command to end the session.
var errExit = errors.New("exit")

// Options configures a Shell.
type Options struct {
	// Out receives command output. Nil means the terminal.
	Out io.Writer
	// Output controls how result documents are rendered.
	Output formatting.Options
	// Search holds the scoring options for the search command.
	Search search.Options
	// Watch reloads the catalog when the snapshot changes on disk.
	Watch    bool
	Debounce time.Duration
	// HistoryFile stores command history. Empty means a file in the
	// temporary directory.
	HistoryFile string
}

// Shell is an interactive read-eval-print loop over a catalog.
type Shell struct {
	catalog  *catalog.Catalog
	opts     Options
	registry *Registry
	rl       *readline.Instance

	outMu      sync.Mutex
	out        io.Writer
	useUnicode bool

	searchMu  sync.Mutex
	searcher  *search.Searcher
	searchGen uint64
}

// New creates a shell over c with all commands registered.
func New(c *catalog.Catalog, opts Options) *Shell {
	if opts.Output.Format == "" {
		opts.Output.Format = formatting.FormatTable
		opts.Output.Boxed = true
	}
	if opts.Search.Limit == 0 && opts.Search.FuzzyThreshold == 0 {
		opts.Search = search.DefaultOptions()
	}
	s := &Shell{
		catalog:    c,
		opts:       opts,
		registry:   NewRegistry(),
		out:        opts.Out,
		useUnicode: detectUnicodeSupport(),
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	s.registerCommands()
	return s
}

// detectUnicodeSupport checks if the terminal likely supports unicode.
func detectUnicodeSupport() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	for _, v := range []string{os.Getenv("LANG"), os.Getenv("LC_ALL")} {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8") {
			return true
		}
	}
	return !strings.HasPrefix(strings.ToLower(term), "vt")
}

// buildPrompt shows the number of loaded features, e.g. "ranfeat [412] » ".
func (s *Shell) buildPrompt() string {
	chevron := promptChevronASCII
	if s.useUnicode {
		chevron = promptChevronUnicode
	}
	return fmt.Sprintf("%s [%d] %s ", promptPrefix, s.catalog.View().Snapshot.Len(), chevron)
}

func (s *Shell) updatePrompt() {
	if s.rl != nil {
		s.rl.SetPrompt(s.buildPrompt())
	}
}

func (s *Shell) printf(format string, args ...interface{}) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) render(doc *formatting.Document) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return formatting.Write(s.out, doc, s.opts.Output)
}

// executeCommand parses input and runs the matching command. Empty input is
// ignored.
func (s *Shell) executeCommand(ctx context.Context, input string) error {
	parts, err := splitArgs(input)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}

	name := strings.ToLower(parts[0])
	command, exists := s.registry.Get(name)
	if !exists {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	commandCtx, cancel := context.WithTimeout(ctx, commandExecutionTimeout)
	defer cancel()
	return command.Execute(commandCtx, parts[1:])
}

// Run starts the loop and returns when the user exits, input ends or ctx
// is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	historyFile := s.opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".ranfeat_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.buildPrompt(),
		HistoryFile:     historyFile,
		AutoComplete:    s.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	s.rl = rl
	if s.opts.Out == nil {
		s.out = rl.Stdout()
	}

	if s.opts.Watch && s.catalog.Path() != "" {
		watcher := catalog.NewWatcher(s.catalog, s.opts.Debounce, s.onReload)
		if err := watcher.Start(ctx); err != nil {
			logging.Warn("Shell", "Snapshot watch disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	s.printf("Loaded %d features from %s. Type 'help' for available commands. Use TAB for completion.\n\n",
		s.catalog.View().Snapshot.Len(), s.catalog.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			s.printf("Goodbye!\n")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := s.executeCommand(ctx, input); err != nil {
			if errors.Is(err, errExit) {
				s.printf("Goodbye!\n")
				return nil
			}
			s.printf("%s\n", cli.FormatError(err))
		}
		s.printf("\n")
	}
}

// onReload reports a watcher reload above the current input line.
func (s *Shell) onReload(v *catalog.View, err error) {
	if s.rl != nil {
		s.outMu.Lock()
		_, _ = s.rl.Stdout().Write([]byte("\r\033[K"))
		s.outMu.Unlock()
	}
	if err != nil {
		s.printf("%s\n", cli.FormatWarning(fmt.Sprintf("Snapshot reload failed, keeping generation %d: %v", s.catalog.View().Generation, err)))
	} else {
		s.printf("%s\n", cli.FormatSuccess(fmt.Sprintf("Reloaded %d features (generation %d)", v.Snapshot.Len(), v.Generation)))
	}
	s.updatePrompt()
	if s.rl != nil {
		s.rl.Refresh()
	}
}

// createCompleter completes command names, then the arguments each command
// offers. Argument completions are evaluated against the current view.
func (s *Shell) createCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range s.registry.AllCompletions() {
		cmd, _ := s.registry.Get(name)
		items = append(items, readline.PcItem(name, readline.PcItemDynamic(completionFunc(cmd))))
	}
	return readline.NewPrefixCompleter(items...)
}

func completionFunc(cmd Command) readline.DynamicCompleteFunc {
	return func(line string) []string {
		fields := strings.Fields(line)
		partial := ""
		if len(fields) > 1 && !strings.HasSuffix(line, " ") {
			partial = fields[len(fields)-1]
		}
		return cmd.Completions(partial)
	}
}

// filterInput filters input characters for readline
func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
