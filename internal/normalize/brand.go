package normalize

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"repair-insights-go/internal/catalog"
)

// OtherBrand is returned when no dictionary entry matches.
const OtherBrand = "Others"

type alias struct {
	text  string
	brand string
}

// Brands canonicalizes free-text brand mentions against a fixed dictionary.
// Longer aliases are tried first so a short one never shadows a full brand
// name appearing in the same text. Tokens only match whole words, so
// "silver" is not "lv".
type Brands struct {
	aliases []alias
	tokens  []alias
}

func NewBrands(entries []catalog.Brand) *Brands {
	b := &Brands{}
	for _, e := range entries {
		for _, a := range e.Aliases {
			if a = fold(a); a != "" {
				b.aliases = append(b.aliases, alias{text: a, brand: e.Name})
			}
		}
		for _, tok := range e.Tokens {
			if tok = fold(tok); tok != "" {
				b.tokens = append(b.tokens, alias{text: tok, brand: e.Name})
			}
		}
	}
	sort.SliceStable(b.aliases, func(i, j int) bool {
		return utf8.RuneCountInString(b.aliases[i].text) > utf8.RuneCountInString(b.aliases[j].text)
	})
	return b
}

// Canonical maps raw to a dictionary brand name or OtherBrand.
func (b *Brands) Canonical(raw string) string {
	t := fold(raw)
	if t == "" {
		return OtherBrand
	}
	for _, a := range b.aliases {
		if strings.Contains(t, a.text) {
			return a.brand
		}
	}
	if len(b.tokens) == 0 {
		return OtherBrand
	}
	for _, w := range catalog.Words(t) {
		for _, tok := range b.tokens {
			if w == tok.text {
				return tok.brand
			}
		}
	}
	return OtherBrand
}

// fold lowercases and NFC-composes so Hangul typed on different keyboards
// compares equal.
func fold(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}
