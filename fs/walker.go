package fs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultIncludePatterns are the file name globs walked by default.
var DefaultIncludePatterns = []string{"*.html", "*.htm", "*.md"}

const defaultWalkConcurrency = 4

// PathFilter decides whether a discovered file is indexed.
// techdoc.PathResolver satisfies it.
type PathFilter interface {
	ShouldSkip(filename, path string) bool
	IsAllowedDomain(path string) bool
}

// partialMatcher is implemented by filters that can tell when a block rests
// only on a mid-label suffix match.
type partialMatcher interface {
	PartialLabelMatch(path string) string
}

// WalkStats counts what a walk discarded.
type WalkStats struct {
	Files      int // files kept
	Skipped    int // matched a skip pattern
	Blocked    int // under a blocked domain
	Partial    int // blocked only by a mid-label suffix match
	MissingDir int // target directories that do not exist
	Unreadable int // entries that could not be read
}

func (s *WalkStats) add(o WalkStats) {
	s.Files += o.Files
	s.Skipped += o.Skipped
	s.Blocked += o.Blocked
	s.Partial += o.Partial
	s.MissingDir += o.MissingDir
	s.Unreadable += o.Unreadable
}

// Walker enumerates documentation files under target directories.
type Walker struct {
	// Filter drops skip-listed files and blocked domains. Optional.
	Filter PathFilter

	// Include lists doublestar globs matched against file names.
	// Empty means DefaultIncludePatterns. Extensionless files always match.
	Include []string

	// Concurrency bounds the number of directories walked at once.
	Concurrency int

	// Open returns the file system rooted at a target directory.
	// Nil uses os.DirFS.
	Open func(dir string) fs.FS

	// Logger receives entries that could not be read. Optional.
	Logger *slog.Logger
}

// Walk returns the files under dirs. Directories are walked concurrently and
// results are merged in the order dirs were given, lexical within each
// directory. Missing directories and unreadable entries are counted and
// skipped; only cancellation ends the walk with an error.
func (w *Walker) Walk(ctx context.Context, dirs []string) ([]string, WalkStats, error) {
	limit := w.Concurrency
	if limit <= 0 {
		limit = defaultWalkConcurrency
	}

	perDir := make([][]string, len(dirs))
	stats := make([]WalkStats, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, dir := range dirs {
		g.Go(func() error {
			files, st, err := w.walkDir(ctx, dir)
			if err != nil {
				return err
			}
			perDir[i] = files
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, WalkStats{}, err
	}

	var (
		files []string
		total WalkStats
	)
	for i := range dirs {
		files = append(files, perDir[i]...)
		total.add(stats[i])
	}
	return files, total, nil
}

func (w *Walker) walkDir(ctx context.Context, dir string) ([]string, WalkStats, error) {
	var st WalkStats

	fsys := w.open(dir)
	info, err := fs.Stat(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		st.MissingDir++
		return nil, st, nil
	} else if err != nil {
		w.logger().Warn("unreadable target directory", "dir", dir, "err", err)
		st.Unreadable++
		return nil, st, nil
	}

	var files []string
	err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err != nil {
			w.logger().Warn("unreadable entry", "path", path, "err", err)
			st.Unreadable++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !w.matches(d.Name()) {
			return nil
		}
		if w.Filter != nil {
			if w.Filter.ShouldSkip(d.Name(), path) {
				st.Skipped++
				return nil
			}
			if !w.Filter.IsAllowedDomain(path) {
				st.Blocked++
				if pm, ok := w.Filter.(partialMatcher); ok && pm.PartialLabelMatch(path) != "" {
					st.Partial++
				}
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, st, err
	}
	st.Files = len(files)
	return files, st, nil
}

func (w *Walker) open(dir string) fs.FS {
	if w.Open != nil {
		return w.Open(dir)
	}
	return os.DirFS(dir)
}

func (w *Walker) matches(name string) bool {
	if filepath.Ext(name) == "" {
		return true
	}
	patterns := w.Include
	if len(patterns) == 0 {
		patterns = DefaultIncludePatterns
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func (w *Walker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.Logger
}
