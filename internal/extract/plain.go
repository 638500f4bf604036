package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeRaw decodes bytes as text on a best-effort basis. A byte order mark
// selects UTF-8 or UTF-16; otherwise UTF-8 is assumed. Invalid sequences are
// dropped.
func DecodeRaw(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return strings.ReplaceAll(string(decoded), string(utf8.RuneError), "")
}
