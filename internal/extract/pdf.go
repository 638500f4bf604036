//go:build !nopdf

package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

type pdfReader struct{}

func newPDFReader() Reader { return pdfReader{} }

// Read joins the trimmed plain text of every page with newlines, in page
// order. Pages without content contribute an empty string.
func (pdfReader) Read(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return strings.Join(pages, "\n"), nil
}
