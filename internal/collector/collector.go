// Package collector discovers rule files below a root directory.
package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches Sigma rule files by base name.
const DefaultPattern = "*.yml"

var errStop = errors.New("stop walking")

// Rules yields every regular file under root whose base name matches
// pattern, descending into all subdirectories. Entries are visited in
// lexical order within each directory. Symlinked directories are never
// entered, so aliases and cycles cannot repeat a rule. The sequence can be
// ranged over more than once; each range re-walks the tree. A walk error is
// yielded once with an empty path and ends the sequence.
func Rules(root, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if pattern == "" {
			pattern = DefaultPattern
		}
		if !doublestar.ValidatePattern(pattern) {
			yield("", fmt.Errorf("invalid rule pattern %q", pattern))
			return
		}

		fsys := os.DirFS(root)
		err := doublestar.GlobWalk(fsys, "**/"+pattern, func(path string, d fs.DirEntry) error {
			// Without following, a linked directory is reported as a file.
			if d.Type()&fs.ModeSymlink != 0 {
				if info, err := fs.Stat(fsys, path); err == nil && info.IsDir() {
					return nil
				}
			}
			if !yield(filepath.Join(root, filepath.FromSlash(path)), nil) {
				return errStop
			}
			return nil
		}, doublestar.WithFilesOnly(), doublestar.WithNoFollow(), doublestar.WithFailOnIOErrors())

		if err != nil && !errors.Is(err, errStop) {
			yield("", fmt.Errorf("walk %s: %w", root, err))
		}
	}
}

// Collect drains Rules into a slice.
func Collect(root, pattern string) ([]string, error) {
	var paths []string
	for path, err := range Rules(root, pattern) {
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
