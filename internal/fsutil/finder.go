// Package fsutil provides file system helpers for manifest discovery.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files
// ending with the specified extension and returns their paths in walk order.
// The root may also name a single file directly.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// CollectFiles walks every root in order and returns the union of matching
// files. A file reachable through several overlapping roots appears once, at
// its first position.
func CollectFiles(roots []string, extension string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, root := range roots {
		found, err := FindFilesByExtension(root, extension)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files, nil
}
