package extract

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ReadHTML extracts visible text using the standard tokenizer. Script and
// style contents are skipped; each text node becomes one line.
func ReadHTML(data []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(data))
	var lines []string
	inScript := false
	inStyle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return strings.Join(lines, "\n"), nil
			}
			return "", tokenizer.Err()

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if inScript || inStyle {
				continue
			}
			text := cleanText(tokenizer.Token().Data)
			if text != "" {
				lines = append(lines, text)
			}
		}
	}
}

// cleanText removes excessive whitespace
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
