//go:build !noxlsx

package extract

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func newXLSXReader() Reader { return xlsxReader{} }

// Read emits one line per non-empty row with cells separated by tabs.
// Sheets follow workbook order.
func (xlsxReader) Read(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t")
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
