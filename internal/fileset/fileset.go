// Package fileset resolves glob patterns to ordered lists of files under a
// workspace root.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidRoot indicates the workspace root does not exist or is not a directory.
var ErrInvalidRoot = errors.New("invalid workspace root")

// Resolve returns every regular file under root matching the doublestar
// pattern, as paths relative to root in lexicographic order.
//
// Resolution is a pure snapshot: nothing is cached, and an unchanged tree
// yields an identical result on every call. An empty result is legal.
// Hidden directories are not excluded; patterns are expected to be specific.
func Resolve(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
		}
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	var matches []string
	err = doublestar.GlobWalk(os.DirFS(root), pattern, func(path string, d fs.DirEntry) error {
		if d.Type().IsRegular() {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("glob %q failed: %w", pattern, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// ResolveAll resolves each pattern under root and merges the results into a
// single sorted list with duplicates removed.
func ResolveAll(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var merged []string
	for _, pattern := range patterns {
		matches, err := Resolve(root, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			merged = append(merged, m)
		}
	}
	sort.Strings(merged)
	return merged, nil
}
