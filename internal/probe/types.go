package probe

import "fmt"

// Result describes one probed source file.
type Result struct {
	Path        string
	Size        int64
	Version     string // e.g. "1.7"; empty when no %PDF- header was found.
	HeaderAt    int    // Byte offset of the %PDF- marker, -1 when absent.
	Encrypted   bool   // Trailer references an /Encrypt dictionary.
	Linearized  bool   // "Fast web view" layout.
	ContentType string // As sniffed by net/http.
}

// IsPDF reports whether a %PDF- header was found within the leading window.
func (r *Result) IsPDF() bool {
	return r.HeaderAt >= 0
}

// String is a one-line summary for debug logs.
func (r *Result) String() string {
	if !r.IsPDF() {
		return fmt.Sprintf("not a PDF (%s, %d bytes)", r.ContentType, r.Size)
	}
	s := fmt.Sprintf("PDF %s, %d bytes", r.Version, r.Size)
	if r.Encrypted {
		s += ", encrypted"
	}
	if r.Linearized {
		s += ", linearized"
	}
	return s
}
