package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes characters (NFD), strips combining marks, and
// recomposes. "Ā" and "a" fold to the same byte sequence, which is what
// makes unaccented queries match Latvian company names.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSearch lowercases a string and removes diacritical marks so that
// "Rīgas Piena Kombināts" matches the query "rigas piena". The same folding
// is applied to stored columns at write time and to queries at search time.
func NormalizeSearch(s string) string {
	folded, _, err := transform.String(foldDiacritics, strings.ToLower(s))
	if err != nil {
		// Folding only fails on malformed input; fall back to the
		// lowercased original rather than dropping the value.
		return strings.ToLower(s)
	}
	return folded
}

// ComputeNormalized fills the precomputed search columns from the display
// fields. Storage backends call this before persisting so search never has
// to fold at query time.
func (c *Company) ComputeNormalized() {
	c.NormalizedName = NormalizeSearch(c.Name)
	c.NormalizedRegNum = NormalizeSearch(c.RegistrationNumber)
	c.NormalizedTaxNum = NormalizeSearch(c.TaxNumber)
	for i := range c.Owners {
		c.Owners[i].NormalizedName = NormalizeSearch(c.Owners[i].Name)
	}
}

// MatchesSearch reports whether a normalized query term matches any of the
// company's searchable fields, including current owner names.
func (c *Company) MatchesSearch(normalizedTerm string) bool {
	if normalizedTerm == "" {
		return false
	}
	if strings.Contains(c.NormalizedName, normalizedTerm) ||
		strings.Contains(c.NormalizedRegNum, normalizedTerm) ||
		strings.Contains(c.NormalizedTaxNum, normalizedTerm) {
		return true
	}
	for _, o := range c.Owners {
		if o.IsHistorical {
			continue
		}
		if strings.Contains(o.NormalizedName, normalizedTerm) {
			return true
		}
	}
	return false
}
