//go:build nopdf

package extract

// Built without PDF support: PDF uploads are decoded as raw bytes.
func newPDFReader() Reader { return nil }
