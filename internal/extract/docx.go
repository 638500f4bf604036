//go:build !nodocx

package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

var errNoDocumentPart = errors.New("docx: word/document.xml not found")

type docxReader struct{}

func newDOCXReader() Reader { return docxReader{} }

// Read returns the text of each top-level body paragraph joined by newlines,
// in document order. Paragraphs inside tables and text boxes are skipped.
func (docxReader) Read(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var part *zip.File
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, "word/document.xml") {
			part = f
			break
		}
	}
	if part == nil {
		return "", errNoDocumentPart
	}

	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	paragraphs, err := bodyParagraphs(rc)
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		stack      []string
		current    strings.Builder
		inBodyPara bool
		paraDepth  int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return paragraphs, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "p" {
				if !inBodyPara && len(stack) > 0 && stack[len(stack)-1] == "body" {
					inBodyPara = true
					paraDepth = len(stack)
					current.Reset()
				}
			}
			if inBodyPara && nestedParagraphs(stack[paraDepth:]) == 0 {
				switch name {
				case "pPr", "rPr":
					// Properties hold tab stop definitions, not text.
					if err := dec.Skip(); err != nil {
						return nil, err
					}
					continue
				case "t":
					var text string
					if err := dec.DecodeElement(&text, &t); err != nil {
						return nil, err
					}
					current.WriteString(text)
					continue
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}
			stack = append(stack, name)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			if inBodyPara && t.Name.Local == "p" && len(stack) == paraDepth {
				paragraphs = append(paragraphs, current.String())
				inBodyPara = false
			}
		}
	}
}

// nestedParagraphs counts paragraph elements below the body paragraph
func nestedParagraphs(path []string) int {
	n := 0
	for i, name := range path {
		if i > 0 && name == "p" {
			n++
		}
	}
	return n
}
