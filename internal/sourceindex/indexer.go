// Package sourceindex builds a filename-to-path lookup over the nested
// source tree in a single streaming traversal.
package sourceindex

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"curator/internal/services"
)

// Index maps bare filenames to absolute source paths.
//
// Filenames are expected to be unique across the tree. When duplicates occur
// the lexicographically smallest absolute path wins, independent of traversal
// order, and each displaced duplicate is counted as a collision.
type Index struct {
	paths      map[string]string
	filesSeen  int
	collisions int
}

// Build walks the tree rooted at root and returns the completed index.
// Unreadable subdirectories are skipped; a missing or unreadable root is an
// input error.
func Build(ctx context.Context, root string) (*Index, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "sourceindex", "stat root", fmt.Sprintf("source directory %s is not accessible", root), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrInput, "sourceindex", "stat root", fmt.Sprintf("source path %s is not a directory", root), nil)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "sourceindex", "resolve root", "cannot resolve source root", err)
	}

	idx := &Index{paths: make(map[string]string)}
	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Permission problems inside the tree are tolerated; the files
			// simply stay unresolved.
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		idx.add(entry.Name(), path)
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrInput, "sourceindex", "walk", "source tree traversal failed", walkErr)
	}

	return idx, nil
}

func (i *Index) add(name, path string) {
	i.filesSeen++
	existing, ok := i.paths[name]
	if !ok {
		i.paths[name] = path
		return
	}
	i.collisions++
	if path < existing {
		i.paths[name] = path
	}
}

// Lookup returns the absolute path for a bare filename.
func (i *Index) Lookup(name string) (string, bool) {
	path, ok := i.paths[name]
	return path, ok
}

// Len returns the number of distinct filenames in the index.
func (i *Index) Len() int {
	return len(i.paths)
}

// FilesSeen returns the total number of files visited during the walk.
func (i *Index) FilesSeen() int {
	return i.filesSeen
}

// Collisions returns the number of files displaced by the duplicate
// filename tie-break.
func (i *Index) Collisions() int {
	return i.collisions
}

// ExtensionCounts tallies indexed filenames by lowercase extension. Files
// without an extension are grouped under "(none)".
func (i *Index) ExtensionCounts() map[string]int {
	counts := make(map[string]int)
	for name := range i.paths {
		ext := filepath.Ext(name)
		if ext == "" {
			ext = "(none)"
		} else {
			ext = strings.ToLower(ext)
		}
		counts[ext]++
	}
	return counts
}
