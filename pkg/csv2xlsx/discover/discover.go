// Package discover lists the CSV files below an input directory in the
// order they become worksheets.
package discover

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Extension is matched case-insensitively against file names.
const Extension = ".csv"

// Options controls which files are returned.
type Options struct {
	// Recursive walks subdirectories when true.
	Recursive bool
	// Exclude holds gitignore-style patterns relative to the root.
	Exclude []string
	// Logger receives warnings about unreadable subdirectories.
	Logger *slog.Logger
}

// Find returns the CSV files in root sorted by lower-cased base name.
// Files with equal keys keep their walk order. An unreadable root is an
// error; unreadable subdirectories are skipped with a warning.
func Find(root string, opts Options) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var matcher *ignore.GitIgnore
	if len(opts.Exclude) > 0 {
		matcher = ignore.CompileIgnoreLines(opts.Exclude...)
	}
	excluded := func(path string, dir bool) bool {
		if matcher == nil {
			return false
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		rel = filepath.ToSlash(rel)
		if dir {
			rel += "/"
		}
		return matcher.MatchesPath(rel)
	}

	var files []string
	if opts.Recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root || d == nil {
					return err
				}
				log.Warn("skipping unreadable path", "path", path, "error", err)
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && excluded(path, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if isCSV(d.Name()) && !excluded(path, false) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			path := filepath.Join(root, entry.Name())
			if entry.IsDir() || !isCSV(entry.Name()) || excluded(path, false) {
				continue
			}
			files = append(files, path)
		}
	}

	slices.SortStableFunc(files, func(a, b string) int {
		return strings.Compare(sortKey(a), sortKey(b))
	})
	return files, nil
}

func isCSV(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Extension)
}

func sortKey(path string) string {
	return strings.ToLower(filepath.Base(path))
}
