package engine

import (
	"archive/zip"
	"context"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePDF(t *testing.T, pages ...string) string {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for _, text := range pages {
		pdf.AddPage()
		pdf.Cell(40, 10, text)
	}
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func TestFitzEngine_Convert(t *testing.T) {
	src := writePDF(t, "alpha page", "beta page", "gamma page")
	dst := filepath.Join(t.TempDir(), "sample.docx")

	s, err := FitzEngine{}.Open(context.Background(), src)
	require.NoError(t, err)
	require.NoError(t, s.Convert(context.Background(), dst, 1, AllPages))
	require.NoError(t, s.Close())

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()
	doc := readZipPart(t, &zr.Reader, "word/document.xml")
	assert.NotContains(t, doc, "alpha page")
	assert.Contains(t, doc, "beta page")
	assert.Contains(t, doc, "gamma page")
}

func TestFitzEngine_EmptyRange(t *testing.T) {
	src := writePDF(t, "only page")
	s, err := FitzEngine{}.Open(context.Background(), src)
	require.NoError(t, err)
	defer s.Close()

	err = s.Convert(context.Background(), filepath.Join(t.TempDir(), "x.docx"), 3, AllPages)
	assert.Error(t, err)
}

func TestFitzEngine_OpenInvalid(t *testing.T) {
	_, err := FitzEngine{}.Open(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
