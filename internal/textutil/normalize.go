package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// venueSuffixes are generic type-of-venue words that carry no identity when
// they trail a name ("Corner Bistro Restaurant" vs "Corner Bistro").
var venueSuffixes = map[string]struct{}{
	"restaurant":  {},
	"restaurants": {},
	"cafe":        {},
	"bar":         {},
	"grill":       {},
	"kitchen":     {},
	"house":       {},
	"place":       {},
	"eatery":      {},
	"diner":       {},
}

var leadingArticles = map[string]struct{}{
	"the": {},
}

// NormalizeName canonicalizes a free-text name for comparison. The pipeline:
// 1. Fold compatibility forms and strip diacritics.
// 2. Case-fold to lower.
// 3. Drop everything that is not a letter, digit, or whitespace.
// 4. Collapse whitespace runs and trim.
// 5. Strip trailing venue words and a leading article while more than one token remains.
//
// NormalizeName is idempotent.
func NormalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	folded := strings.ToLower(foldDiacritics(name))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for len(tokens) > 1 {
		if _, ok := venueSuffixes[tokens[len(tokens)-1]]; ok {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		if _, ok := leadingArticles[tokens[0]]; ok {
			tokens = tokens[1:]
			continue
		}
		break
	}
	return strings.Join(tokens, " ")
}

// foldDiacritics decomposes s, removes combining marks, and recomposes it.
// Transformer chains are stateful, so one is built per call.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
