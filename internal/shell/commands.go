package shell

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ranfeat/internal/catalog"
	"ranfeat/internal/cli"
	"ranfeat/internal/feature"
	"ranfeat/internal/formatting"
	"ranfeat/internal/search"
)

// registerCommands registers every shell command.
func (s *Shell) registerCommands() {
	s.registry.Register("deps", s.depsCommand())
	s.registry.Register("dependents", s.dependentsCommand())
	s.registry.Register("order", s.orderCommand())
	s.registry.Register("validate", s.validateCommand())
	s.registry.Register("conflicts", s.conflictsCommand())
	s.registry.Register("cycles", s.cyclesCommand())
	s.registry.Register("impact", s.impactCommand())
	s.registry.Register("info", s.infoCommand())
	s.registry.Register("search", s.searchCommand())
	s.registry.Register("stats", s.statsCommand())
	s.registry.Register("reload", s.reloadCommand())
	s.registry.Register("help", s.helpCommand())
	s.registry.Register("exit", &funcCommand{
		usage:       "exit",
		description: "Leave the shell",
		aliases:     []string{"quit", "q"},
		run:         func(context.Context, []string) error { return errExit },
	})
}

// resolve looks up a single feature in v. Multi-word queries arrive as
// several arguments and are joined again.
func resolve(v *catalog.View, args []string) (feature.Key, string, error) {
	query := strings.Join(args, " ")
	key, ok := v.Engine.Resolve(query)
	if !ok {
		return "", query, fmt.Errorf("feature %q not found", query)
	}
	return key, query, nil
}

// featureCompletions offers the acronyms of the current view.
func (s *Shell) featureCompletions(input string) []string {
	v := s.catalog.View()
	seen := make(map[string]bool)
	var out []string
	prefix := strings.ToUpper(input)
	for _, key := range v.Snapshot.Keys() {
		rec, _ := v.Snapshot.Get(key)
		acr := rec.Acronym
		if acr == "" || seen[acr] || !strings.HasPrefix(strings.ToUpper(acr), prefix) {
			continue
		}
		seen[acr] = true
		out = append(out, acr)
	}
	sort.Strings(out)
	return out
}

func (s *Shell) depsCommand() Command {
	const usage = "deps <feature> [--depth N] [--reverse] [--recursive] [--mermaid]"
	return &funcCommand{
		usage:       usage,
		description: "Show the prerequisite tree of a feature",
		complete:    s.featureCompletions,
		run: func(ctx context.Context, args []string) error {
			var opts cli.DepsOptions
			fs := newFlagSet("deps")
			fs.IntVar(&opts.Depth, "depth", 0, "")
			fs.BoolVar(&opts.Reverse, "reverse", false, "")
			fs.BoolVarP(&opts.Recursive, "recursive", "r", false, "")
			fs.BoolVar(&opts.Mermaid, "mermaid", false, "")
			rest, err := parseFlags(fs, args, 1, usage)
			if err != nil {
				return err
			}
			v := s.catalog.View()
			key, query, err := resolve(v, rest)
			if err != nil {
				return err
			}
			return s.render(cli.DepsDocument(cli.NewDepsResult(v.Graph, query, key, opts)))
		},
	}
}

func (s *Shell) dependentsCommand() Command {
	const usage = "dependents <feature> [-r]"
	return &funcCommand{
		usage:       usage,
		description: "List features that require a feature, transitively with -r",
		aliases:     []string{"rdeps"},
		complete:    s.featureCompletions,
		run: func(ctx context.Context, args []string) error {
			opts := cli.DepsOptions{Reverse: true}
			fs := newFlagSet("dependents")
			fs.BoolVarP(&opts.Recursive, "recursive", "r", false, "")
			rest, err := parseFlags(fs, args, 1, usage)
			if err != nil {
				return err
			}
			v := s.catalog.View()
			key, query, err := resolve(v, rest)
			if err != nil {
				return err
			}
			return s.render(cli.DepsDocument(cli.NewDepsResult(v.Graph, query, key, opts)))
		},
	}
}

func (s *Shell) orderCommand() Command {
	const usage = "order <feature>..."
	return &funcCommand{
		usage:       usage,
		description: "Compute the activation order for one or more features",
		aliases:     []string{"plan"},
		complete:    s.featureCompletions,
		run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: %s", usage)
			}
			return s.render(cli.PlanDocument(s.catalog.View().Engine.Order(args)))
		},
	}
}

func (s *Shell) validateCommand() Command {
	const usage = "validate <feature> <feature>..."
	return &funcCommand{
		usage:       usage,
		description: "Check whether features can be active together",
		complete:    s.featureCompletions,
		run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: %s", usage)
			}
			return s.render(cli.ValidationDocument(s.catalog.View().Engine.Validate(args)))
		},
	}
}

func (s *Shell) conflictsCommand() Command {
	return &funcCommand{
		usage:       "conflicts [feature]",
		description: "List conflicts of a feature, or every conflicting pair",
		complete:    s.featureCompletions,
		run: func(ctx context.Context, args []string) error {
			v := s.catalog.View()
			if len(args) == 0 {
				return s.render(cli.ConflictsDocument(v.Graph.AllConflicts()))
			}
			key, _, err := resolve(v, args)
			if err != nil {
				return err
			}
			return s.render(cli.FeatureConflictsDocument(&cli.FeatureConflicts{
				Feature:   cli.Ref(v.Graph, key),
				Conflicts: cli.Refs(v.Graph, v.Graph.ConflictsOf(key)),
			}))
		},
	}
}

func (s *Shell) cyclesCommand() Command {
	return &funcCommand{
		usage:       "cycles",
		description: "Find prerequisite cycles",
		run: func(ctx context.Context, args []string) error {
			g := s.catalog.View().Graph
			return s.render(cli.CyclesDocument(g, g.FindCycles()))
		},
	}
}

func (s *Shell) impactCommand() Command {
	const usage = "impact <feature>"
	return &funcCommand{
		usage:       usage,
		description: "Show what is affected by changing a feature",
		complete:    s.featureCompletions,
		run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: %s", usage)
			}
			v := s.catalog.View()
			key, _, err := resolve(v, args)
			if err != nil {
				return err
			}
			return s.render(cli.ImpactDocument(v.Graph, v.Graph.Impact(key)))
		},
	}
}

func (s *Shell) infoCommand() Command {
	const usage = "info <feature>"
	return &funcCommand{
		usage:       usage,
		description: "Show the details of a feature",
		aliases:     []string{"show"},
		complete:    s.featureCompletions,
		run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: %s", usage)
			}
			v := s.catalog.View()
			key, _, err := resolve(v, args)
			if err != nil {
				return err
			}
			rec, _ := v.Snapshot.Get(key)
			return s.render(cli.FeatureDocument(key, rec))
		},
	}
}

// searcherFor returns a searcher for the current generation, building a new
// one after every reload.
func (s *Shell) searcherFor(v *catalog.View) *search.Searcher {
	s.searchMu.Lock()
	defer s.searchMu.Unlock()
	if s.searcher == nil || s.searchGen != v.Generation {
		s.searcher = search.New(v.Snapshot, s.opts.Search)
		s.searchGen = v.Generation
	}
	return s.searcher
}

func (s *Shell) searchCommand() Command {
	const usage = "search <text> [--fuzzy|--acronym|--boolean] [--param P] [--counter C] [--mo M] [--access A] [--cxc X] [--release RANGE] [--limit N]"
	return &funcCommand{
		usage:       usage,
		description: "Search features by name, keyword, acronym or attribute",
		aliases:     []string{"find"},
		run: func(ctx context.Context, args []string) error {
			var (
				q                        search.Query
				fuzzy, acronym, boolExpr bool
				limit                    int
			)
			fs := newFlagSet("search")
			fs.BoolVar(&fuzzy, "fuzzy", false, "")
			fs.BoolVar(&acronym, "acronym", false, "")
			fs.BoolVar(&boolExpr, "boolean", false, "")
			fs.StringVar(&q.Param, "param", "", "")
			fs.StringVar(&q.Counter, "counter", "", "")
			fs.StringVar(&q.MOClass, "mo", "", "")
			fs.StringVar(&q.Access, "access", "", "")
			fs.StringVar(&q.CXC, "cxc", "", "")
			fs.StringVar(&q.Release, "release", "", "")
			fs.IntVar(&limit, "limit", 0, "")
			rest, err := parseFlags(fs, args, 0, usage)
			if err != nil {
				return err
			}
			if q.Mode, err = search.SelectMode(fuzzy, acronym, boolExpr); err != nil {
				return err
			}
			q.Text = strings.Join(rest, " ")

			searcher := s.searcherFor(s.catalog.View())
			if limit > 0 {
				opts := s.opts.Search
				opts.Limit = limit
				searcher = search.New(s.catalog.View().Snapshot, opts)
			}
			results, err := searcher.Run(q)
			if err != nil {
				return fmt.Errorf("%w\nusage: %s", err, usage)
			}
			return s.render(cli.SearchDocument(q.String(), results))
		},
	}
}

func (s *Shell) statsCommand() Command {
	return &funcCommand{
		usage:       "stats",
		description: "Show index statistics",
		run: func(ctx context.Context, args []string) error {
			return s.render(cli.StatsDocument(cli.NewStatsResult(s.catalog.View().Graph)))
		},
	}
}

func (s *Shell) reloadCommand() Command {
	return &funcCommand{
		usage:       "reload",
		description: "Load the snapshot again from disk",
		run: func(ctx context.Context, args []string) error {
			v, err := s.catalog.Reload()
			if err != nil {
				return fmt.Errorf("reload failed: %w", err)
			}
			s.updatePrompt()
			s.printf("%s\n", cli.FormatSuccess(fmt.Sprintf("Reloaded %d features (generation %d)", v.Snapshot.Len(), v.Generation)))
			return nil
		},
	}
}

func (s *Shell) helpCommand() Command {
	return &funcCommand{
		usage:       "help [command]",
		description: "Show help information for commands",
		aliases:     []string{"?"},
		complete: func(input string) []string {
			var out []string
			for _, name := range s.registry.List() {
				if strings.HasPrefix(name, input) {
					out = append(out, name)
				}
			}
			return out
		},
		run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				name := strings.ToLower(args[0])
				cmd, ok := s.registry.Get(name)
				if !ok {
					return fmt.Errorf("unknown command: %s. Use 'help' to see all available commands", name)
				}
				s.printf("Command: %s\nDescription: %s\nUsage: %s\n", name, cmd.Description(), cmd.Usage())
				if aliases := cmd.Aliases(); len(aliases) > 0 {
					s.printf("Aliases: %s\n", strings.Join(aliases, ", "))
				}
				return nil
			}

			doc := formatting.NewDocument(nil)
			t := doc.Table("Available commands", "command", "aliases", "description")
			for _, name := range s.registry.List() {
				cmd, _ := s.registry.Get(name)
				t.AddRow(name, strings.Join(cmd.Aliases(), ", "), cmd.Description())
			}
			t.Note("Features are given by FAJ key, name or acronym. Quote names with spaces in lists.")
			t.Note("TAB completes commands and acronyms, Ctrl+R searches history, Ctrl+D exits.")
			return s.render(doc)
		},
	}
}
