package search

import (
	"regexp"
	"strings"
)

// DefaultTokenPattern matches runs of two or more word characters
const DefaultTokenPattern = `\b\w\w+\b`

// Tokenizer splits text into terms using a compiled token pattern
type Tokenizer struct {
	pattern   *regexp.Regexp
	lowercase bool
	stopWords map[string]struct{}
}

// NewTokenizer compiles pattern. An empty pattern selects DefaultTokenPattern;
// a leading "(?u)" flag is accepted and dropped.
func NewTokenizer(pattern string, lowercase bool, stopWords []string) (*Tokenizer, error) {
	pattern = strings.TrimPrefix(pattern, "(?u)")
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[w] = struct{}{}
	}
	return &Tokenizer{pattern: re, lowercase: lowercase, stopWords: stop}, nil
}

// Tokenize returns the terms of text in order, stop words removed
func (t *Tokenizer) Tokenize(text string) []string {
	if t.lowercase {
		text = strings.ToLower(text)
	}
	matches := t.pattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, stop := t.stopWords[m]; stop {
			continue
		}
		tokens = append(tokens, m)
	}
	return tokens
}

// NGrams expands tokens into all n-grams with minN <= n <= maxN, each joined
// by a single space. Lower orders come first.
func NGrams(tokens []string, minN, maxN int) []string {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	if minN == 1 && maxN == 1 {
		return tokens
	}

	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}
