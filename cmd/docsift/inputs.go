package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/pipeline"
)

// collectInputs expands directories into their supported files (sorted,
// non-recursive) and keeps explicit file arguments as given.
func collectInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read input dir: %w", err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

// readFiles loads each path into a pipeline.File named by its base name.
// Unreadable files are reported to onErr and skipped.
func readFiles(paths []string, onErr func(path string, err error)) []pipeline.File {
	files := make([]pipeline.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			onErr(p, err)
			continue
		}
		files = append(files, pipeline.File{Name: filepath.Base(p), Data: data})
	}
	return files
}

// outputName maps a source filename to its result filename.
func outputName(filename, format string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + "." + format
}
