package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const pdfExt = ".pdf"

// Resolve expands inputs into the ordered, deduplicated list of PDFs to
// convert. A regular file is taken as-is when its extension is .pdf (any
// case). A directory contributes the files whose base name matches pattern
// (case-insensitively) and whose extension is .pdf, sorted by path; nested
// directories are searched only when recursive is set. Anything else
// produces a warning and is skipped. Duplicates, compared by absolute
// path, keep their first position.
func Resolve(inputs []string, pattern string, recursive bool) (files, warnings []string) {
	seen := make(map[string]bool)
	add := func(path string) {
		key := identity(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, in := range inputs {
		fi, err := os.Stat(in)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("%s is not a PDF file or directory; skipped", in))
		case fi.Mode().IsRegular():
			if !isPDF(in) {
				warnings = append(warnings, fmt.Sprintf("%s is not a PDF file; skipped", in))
				continue
			}
			add(in)
		case fi.IsDir():
			matches, err := matchDir(in, pattern, recursive)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %v", in, err))
			}
			for _, m := range matches {
				add(m)
			}
		default:
			warnings = append(warnings, fmt.Sprintf("%s is not a regular file or directory; skipped", in))
		}
	}
	return files, warnings
}

// matchDir lists the PDFs under dir whose names match pattern. Unreadable
// subdirectories are skipped; the matches found so far are still returned.
func matchDir(dir, pattern string, recursive bool) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	pattern = strings.ToLower(pattern)

	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !isPDF(path) {
			return nil
		}
		if ok, _ := filepath.Match(pattern, strings.ToLower(d.Name())); ok {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), pdfExt)
}

// identity is the dedup key for a path: absolute, cleaned, with symlinks
// resolved when possible.
func identity(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
