package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex = regexp.MustCompile(`[^\w\s]`)
	nonLetterRegex   = regexp.MustCompile(`[^a-z]`)
)

// nameStopWords are tokens that carry no identity when comparing product
// names across duplicate catalog rows ("Skittles Original" vs "Original
// Skittles"), plus basic English stop words and size/packaging noise.
var nameStopWords = map[string]bool{
	// Basic English stop words
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	// Variety/marketing descriptors that differ between duplicate rows
	"original": true, "classic": true, "regular": true, "traditional": true,
	"bite": true, "size": true, "mini": true, "minis": true, "fun": true,
	"share": true, "king": true, "snack": true, "family": true,
	"value": true, "new": true, "improved": true, "flavored": true,
	// Size/quantity units
	"oz": true, "fl": true, "lb": true, "lbs": true, "ml": true,
	"gram": true, "grams": true, "kg": true, "ounce": true, "ounces": true,
	// Packaging terms
	"pack": true, "packs": true, "count": true, "ct": true, "pk": true,
	"box": true, "bag": true, "bottle": true, "can": true, "jar": true,
	"carton": true, "pouch": true, "tub": true,
}

// CanonicalStoreName normalizes a free-text store name into the dedup key
// used across availability tiers: lowercased, everything but letters
// stripped. Idempotent: canonicalizing a canonical name is a no-op.
func CanonicalStoreName(name string) string {
	return nonLetterRegex.ReplaceAllString(strings.ToLower(name), "")
}

// canonicalNameTokens normalizes a product name for sibling matching:
// lowercase, punctuation stripped, tokenized, stop words and pure numbers
// dropped. Order-insensitive by construction (callers compare as sets).
func canonicalNameTokens(name string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(name), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 {
			continue
		}
		if nameStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// longestToken returns the longest canonical token of a product name, the
// anchor for the sibling-name catalog search. Empty when nothing survives
// canonicalization.
func longestToken(name string) string {
	var longest string
	for _, tok := range canonicalNameTokens(name) {
		if len(tok) > len(longest) {
			longest = tok
		}
	}
	return longest
}

// sharedTokenCount counts canonical tokens present in both names.
func sharedTokenCount(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	count := 0
	seen := make(map[string]bool)
	for _, t := range b {
		if set[t] && !seen[t] {
			count++
			seen[t] = true
		}
	}
	return count
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
