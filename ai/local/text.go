package local

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// Stop words carry no retrieval signal and are dropped before hashing.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "i": true, "we": true, "my": true,
	"our": true, "can": true, "me": true, "s": true, "t": true,
}

// tokenizeAndFilter splits text into lowercase letter or digit runs and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	filtered := words[:0]
	for _, word := range words {
		if !stopWords[word] {
			filtered = append(filtered, word)
		}
	}
	return filtered
}
