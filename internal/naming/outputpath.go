package naming

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DocxExt is the extension given to every converted file.
const DocxExt = ".docx"

// OutputPath returns the flattened destination for src: the source's base
// name with its extension replaced by .docx, directly under outputDir.
// Source directory structure is not mirrored.
//
//	/in/reports/q1.pdf, /out → /out/q1.docx
func OutputPath(src, outputDir string) string {
	return filepath.Join(outputDir, Stem(src)+DocxExt)
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TempPath returns a unique hidden sibling of dst for an in-progress write:
//
//	/out/q1.docx → /out/.q1.<uuid>.part.docx
func TempPath(dst string) string {
	stem := strings.TrimSuffix(filepath.Base(dst), filepath.Ext(dst))
	return filepath.Join(filepath.Dir(dst), "."+stem+"."+uuid.NewString()+".part"+DocxExt)
}
