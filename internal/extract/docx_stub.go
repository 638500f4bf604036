//go:build nodocx

package extract

// Built without DOCX support: DOCX uploads are decoded as raw bytes.
func newDOCXReader() Reader { return nil }
