// Package extract pulls plain text out of uploaded documents.
//
// Each format has a Reader. Readers for PDF, DOCX and XLSX are compiled in
// unless the binary is built with the matching nopdf, nodocx or noxlsx tag; a
// format without a reader is decoded as raw text. A reader that fails or panics also degrades to raw
// decoding, so Extract never fails.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format is the declared document format of an upload
type Format string

const (
	FormatPlain Format = "plain"
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatHTML  Format = "html"
	FormatXLSX  Format = "xlsx"
)

// AcceptedExtensions lists the upload extensions offered to users
var AcceptedExtensions = []string{".txt", ".pdf", ".docx"}

// FormatFromName maps a file name to a format by its extension, ignoring
// case. Unknown extensions are treated as plain text.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".html", ".htm":
		return FormatHTML
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatPlain
	}
}

// Reader extracts the text content of one document format
type Reader interface {
	Read(data []byte) (string, error)
}

// ReaderFunc adapts a function to Reader
type ReaderFunc func(data []byte) (string, error)

func (f ReaderFunc) Read(data []byte) (string, error) { return f(data) }

// Extractor selects a Reader per format
type Extractor struct {
	readers map[Format]Reader
	logger  *logrus.Entry
}

// NewExtractor registers every reader available in this build
func NewExtractor(logger *logrus.Entry) *Extractor {
	e := &Extractor{
		readers: make(map[Format]Reader),
		logger:  logger.WithField("component", "extractor"),
	}
	e.Register(FormatPlain, ReaderFunc(func(data []byte) (string, error) {
		return DecodeRaw(data), nil
	}))
	e.Register(FormatHTML, ReaderFunc(ReadHTML))
	if r := newPDFReader(); r != nil {
		e.Register(FormatPDF, r)
	}
	if r := newDOCXReader(); r != nil {
		e.Register(FormatDOCX, r)
	}
	if r := newXLSXReader(); r != nil {
		e.Register(FormatXLSX, r)
	}
	return e
}

// Register installs or replaces the reader for a format
func (e *Extractor) Register(format Format, r Reader) {
	e.readers[format] = r
}

// Supports reports whether a specialized reader is available for format
func (e *Extractor) Supports(format Format) bool {
	_, ok := e.readers[format]
	return ok
}

// Extract returns the text content of data. It never fails: missing readers,
// parse errors and reader panics all fall back to DecodeRaw.
func (e *Extractor) Extract(data []byte, format Format) string {
	reader, ok := e.readers[format]
	if !ok {
		e.logger.WithField("format", format).Debug("No reader for format, decoding raw bytes")
		return DecodeRaw(data)
	}

	text, err := safeRead(reader, data)
	if err != nil {
		e.logger.WithError(err).WithField("format", format).Warn("Extraction failed, decoding raw bytes")
		return DecodeRaw(data)
	}
	return text
}

func safeRead(r Reader, data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("reader panic: %v", rec)
		}
	}()
	return r.Read(data)
}
