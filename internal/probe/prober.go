package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
)

const (
	// headWindow is how far into the file a %PDF- header is accepted.
	// Readers tolerate junk before the header within the first kilobyte.
	headWindow = 1024
	// tailWindow covers the trailer and, usually, the xref stream dictionary.
	tailWindow = 64 * 1024
)

var (
	reHeader     = regexp.MustCompile(`%PDF-(\d\.\d)`)
	reEncrypt    = regexp.MustCompile(`/Encrypt\s+\d+\s+\d+\s+R`)
	reLinearized = regexp.MustCompile(`/Linearized\s`)
)

// Probe reads the leading and trailing windows of path and returns what
// they reveal.
func Probe(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	head := make([]byte, min(int64(headWindow), fi.Size()))
	if _, err := io.ReadFull(f, head); err != nil {
		return nil, fmt.Errorf("read header of %q: %w", path, err)
	}

	tailLen := min(int64(tailWindow), fi.Size())
	tail := make([]byte, tailLen)
	if _, err := f.ReadAt(tail, fi.Size()-tailLen); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read trailer of %q: %w", path, err)
	}

	r := ParseBytes(head, tail)
	r.Path = path
	r.Size = fi.Size()
	return r, nil
}

// ParseBytes inspects the leading and trailing windows of a file.
// Exported for testing without files on disk.
func ParseBytes(head, tail []byte) *Result {
	r := &Result{HeaderAt: -1, ContentType: http.DetectContentType(head)}

	if loc := reHeader.FindSubmatchIndex(head); loc != nil {
		r.HeaderAt = loc[0]
		r.Version = string(head[loc[2]:loc[3]])
	}
	r.Linearized = reLinearized.Match(head)
	r.Encrypted = reEncrypt.Match(tail)
	return r
}
