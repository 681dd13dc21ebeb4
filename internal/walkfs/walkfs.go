// Package walkfs walks a directory tree, filtering candidate files by
// recognized extension and by optional include/exclude glob patterns — the
// directory-scan entry point spec.md's original_source exposes as
// scan_directory_path, generalized with the same doublestar matching
// standardbeagle-lci's FileScanner uses for its own include/exclude lists.
package walkfs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/picklevet/picklevet/format"
)

// Recognized reports whether ext (lowercased, with leading dot) is one of
// the extensions spec.md §6 lists as scannable.
func Recognized(ext string) bool {
	return format.PickleExtensions[ext] ||
		format.TensorArchiveExtensions[ext] ||
		format.NumpyExtensions[ext] ||
		format.GenericArchiveExtensions[ext]
}

// Walk visits every regular file under root whose extension is Recognized
// and that passes the include/exclude filters, calling visit with its path.
// include/exclude patterns are matched against the path relative to root
// using doublestar syntax ("**/*.pkl" and the like); a nil/empty include
// list matches everything not otherwise excluded, matching
// shouldIncludeFast's "no inclusion patterns" behavior.
func Walk(root string, include, exclude []string, visit func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !Recognized(ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		if shouldExclude(rel, exclude) || !shouldInclude(rel, include) {
			return nil
		}
		return visit(path)
	})
}

func shouldExclude(path string, patterns []string) bool {
	for _, p := range patterns {
		if matched, err := doublestar.Match(p, path); err == nil && matched {
			return true
		}
	}
	return false
}

func shouldInclude(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if matched, err := doublestar.Match(p, path); err == nil && matched {
			return true
		}
	}
	return false
}
