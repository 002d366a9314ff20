package extract

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
	"ranfeat/pkg/logging"
)

// DefaultInclude matches every markdown document below the source root.
const DefaultInclude = "**/*.md"

// Options configures a Builder.
type Options struct {
	SourceDir string
	OutputDir string
	Workers   int
	Include   []string // doublestar patterns relative to SourceDir
	Exclude   []string
}

// Result summarises one index build.
type Result struct {
	Documents  int                             `json:"documents"`
	Features   int                             `json:"features"`
	Skipped    []string                        `json:"skipped,omitempty"`    // documents without a feature identity
	Duplicates []string                        `json:"duplicates,omitempty"` // documents whose key was already taken
	Files      []string                        `json:"files,omitempty"`      // index files written
	Records    map[feature.Key]*feature.Record `json:"-"`
	Graph      *dependency.Graph               `json:"-"`
}

// Builder turns a tree of feature documents into the JSON index consumed by
// the query commands.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder. Workers below one fall back to one and an
// empty Include list to DefaultInclude.
func NewBuilder(opts Options) *Builder {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if len(opts.Include) == 0 {
		opts.Include = []string{DefaultInclude}
	}
	return &Builder{opts: opts}
}

// Discover lists the documents to parse, relative to SourceDir and sorted.
func (b *Builder) Discover() ([]string, error) {
	if info, err := os.Stat(b.opts.SourceDir); err != nil {
		return nil, fmt.Errorf("source directory %s: %w", b.opts.SourceDir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", b.opts.SourceDir)
	}
	fsys := os.DirFS(b.opts.SourceDir)
	return discover(fsys, b.opts.Include, b.opts.Exclude)
}

func discover(fsys fs.FS, include, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		for _, p := range matches {
			if seen[p] || excluded(p, exclude) {
				continue
			}
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if match, _ := doublestar.Match(pattern, path); match {
			return true
		}
	}
	return false
}

// Build parses every discovered document and, when OutputDir is set, writes
// the index files there. When two documents carry the same feature key the
// one with the lexically smaller path wins.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	paths, err := b.Discover()
	if err != nil {
		return nil, err
	}
	logging.Info("IndexBuilder", "Parsing %d documents from %s with %d workers", len(paths), b.opts.SourceDir, b.opts.Workers)

	fsys := os.DirFS(b.opts.SourceDir)
	parsed := make([]*feature.Record, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			if rec, ok := ParseDocument(p, string(data)); ok {
				parsed[i] = rec
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Documents: len(paths),
		Records:   make(map[feature.Key]*feature.Record),
	}
	for i, rec := range parsed {
		if rec == nil {
			res.Skipped = append(res.Skipped, paths[i])
			continue
		}
		key := feature.NormalizeKey(rec.FAJ)
		if _, dup := res.Records[key]; dup {
			logging.Warn("IndexBuilder", "Duplicate feature %s in %s, keeping %s", key, paths[i], res.Records[key].File)
			res.Duplicates = append(res.Duplicates, paths[i])
			continue
		}
		res.Records[key] = rec
	}
	res.Features = len(res.Records)
	res.Graph = dependency.Build(feature.NewSnapshot(res.Records))

	if len(res.Skipped) > 0 {
		logging.Debug("IndexBuilder", "Skipped %d documents without a feature identity", len(res.Skipped))
	}

	if b.opts.OutputDir != "" {
		files, err := WriteIndexes(b.opts.OutputDir, res.Records, res.Graph)
		if err != nil {
			return nil, err
		}
		res.Files = files
	}
	logging.Info("IndexBuilder", "Indexed %d features from %d documents", res.Features, res.Documents)
	return res, nil
}
