package svglayout

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// AssetIndex maps a slash-normalized relative path to an absolute
// filesystem location. It is built once per run and read-only during
// composition.
type AssetIndex map[string]string

// BuildAssetIndex expands a comma-separated list of glob patterns into
// an index. Patterns are interpreted relative to root (the current
// directory when root is empty). Later patterns do not overwrite
// earlier matches.
func BuildAssetIndex(root, patterns string) (AssetIndex, error) {
	index := make(AssetIndex)
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("abs %q: %w", m, err)
			}
			rel := m
			if root != "" {
				if r, err := filepath.Rel(root, m); err == nil {
					rel = r
				}
			}
			key := normalizeKey(rel)
			if _, ok := index[key]; !ok {
				index[key] = abs
			}
		}
	}
	return index, nil
}

// Lookup resolves a relative path against the index.
func (idx AssetIndex) Lookup(rel string) (string, bool) {
	abs, ok := idx[normalizeKey(rel)]
	return abs, ok
}

func normalizeKey(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
