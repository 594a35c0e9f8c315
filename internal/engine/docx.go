package engine

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const (
	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentTail = `<w:sectPr/></w:body></w:document>`
	pageBreak    = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`
)

// WriteDocx writes a minimal WordprocessingML package to w. Each element of
// pages becomes one page; each line of a page becomes one paragraph.
func WriteDocx(w io.Writer, pages []string) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return err
		}
	}

	f, err := zw.Create("word/document.xml")
	if err != nil {
		return err
	}
	if err := writeDocument(f, pages); err != nil {
		return err
	}
	return zw.Close()
}

func writeDocument(w io.Writer, pages []string) error {
	if _, err := io.WriteString(w, documentHead); err != nil {
		return err
	}
	for i, page := range pages {
		if i > 0 {
			if _, err := io.WriteString(w, pageBreak); err != nil {
				return err
			}
		}
		for _, line := range strings.Split(strings.TrimRight(page, "\n"), "\n") {
			if err := writeParagraph(w, line); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, documentTail)
	return err
}

func writeParagraph(w io.Writer, text string) error {
	text = strings.TrimRight(text, "\r")
	if text == "" {
		_, err := io.WriteString(w, `<w:p/>`)
		return err
	}
	if _, err := io.WriteString(w, `<w:p><w:r><w:t xml:space="preserve">`); err != nil {
		return err
	}
	if err := xml.EscapeText(w, []byte(text)); err != nil {
		return err
	}
	_, err := io.WriteString(w, `</w:t></w:r></w:p>`)
	return err
}
