package eventsource

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves paths and doublestar patterns into a sorted, de-duplicated file list.
// A pattern that matches nothing is an error.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern matching failed for %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no input matches %q", pattern)
		}

		sort.Strings(matches)
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if info.IsDir() || seen[match] {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	return files, nil
}
