package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"
)

// FitzEngine converts in-process: page text is extracted with MuPDF and
// written as one DOCX paragraph per line, with a page break between pages.
// Layout, images and tables are not preserved.
type FitzEngine struct{}

// Name implements Engine.
func (FitzEngine) Name() string { return "fitz" }

// Open implements Engine.
func (FitzEngine) Open(ctx context.Context, src string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.New(src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	return &fitzSession{doc: doc}, nil
}

type fitzSession struct {
	doc *fitz.Document
}

func (s *fitzSession) Convert(ctx context.Context, dst string, start, end int) error {
	n := s.doc.NumPage()
	if n == 0 {
		return fmt.Errorf("document has no pages")
	}
	if end == AllPages || end > n {
		end = n
	}
	if start < 0 || start >= end {
		return fmt.Errorf("page range [%d, %d) is empty for a %d-page document", start, end, n)
	}

	pages := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := s.doc.Text(i)
		if err != nil {
			return fmt.Errorf("extract page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := WriteDocx(f, pages); err != nil {
		f.Close()
		return fmt.Errorf("write docx: %w", err)
	}
	return f.Close()
}

func (s *fitzSession) Close() error {
	return s.doc.Close()
}
