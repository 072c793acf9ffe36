// Package textindex provides batch TF-IDF vectorization and cosine
// similarity for post text. A Vectorizer is fitted once per ranking request
// over the union of candidate and interacted-post text so that interest
// profiles and candidate vectors share one term space.
package textindex

import (
	"strings"
	"unicode"
)

// minTokenLength drops single-rune fragments left over from splitting
// (possessive s, stray digits).
const minTokenLength = 2

// stopWords is the fixed list of non-informative English words excluded
// before weighting. A word this common carries near-zero IDF anyway; dropping
// it up front keeps the vocabulary budget for informative terms.
var stopWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"against": true, "all": true, "am": true, "an": true, "and": true,
	"any": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "by": true,
	"can": true, "did": true, "do": true, "does": true, "doing": true,
	"down": true, "during": true, "each": true, "few": true, "for": true,
	"from": true, "further": true, "had": true, "has": true, "have": true,
	"having": true, "he": true, "her": true, "here": true, "hers": true,
	"him": true, "his": true, "how": true, "i": true, "if": true,
	"in": true, "into": true, "is": true, "it": true, "its": true,
	"just": true, "me": true, "more": true, "most": true, "my": true,
	"no": true, "nor": true, "not": true, "now": true, "of": true,
	"off": true, "on": true, "once": true, "only": true, "or": true,
	"other": true, "our": true, "ours": true, "out": true, "over": true,
	"own": true, "same": true, "she": true, "so": true, "some": true,
	"such": true, "than": true, "that": true, "the": true, "their": true,
	"theirs": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true,
	"up": true, "very": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true,
	"while": true, "who": true, "whom": true, "why": true, "will": true,
	"with": true, "you": true, "your": true, "yours": true,
}

// IsStopWord reports whether the lowercased word is on the stop list.
func IsStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// Tokenize lowercases text, splits it on any non-letter/non-digit rune, and
// drops stop words and tokens shorter than two runes. Returns nil for text
// with no usable tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tokens []string
	for _, f := range fields {
		if len([]rune(f)) < minTokenLength {
			continue
		}
		if stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}
