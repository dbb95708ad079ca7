// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package discovery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// strokeFolds maps letters whose diacritic is part of the glyph rather than
// a combining mark, so canonical decomposition cannot strip it.
var strokeFolds = map[rune]rune{
	'đ': 'd', 'Đ': 'D',
	'ł': 'l', 'Ł': 'L',
	'ø': 'o', 'Ø': 'O',
}

// Normalize folds s for search matching: decompose, drop combining marks,
// recompose (NFC), lowercase, then keep only [0-9a-z].
//
//	Normalize("Hà Nội") == Normalize("Ha Noi") == "hanoi"
func Normalize(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if f, ok := strokeFolds[r]; ok {
				return f
			}
			return r
		}),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches reports whether the normalized query is contained in the
// normalized name. An empty query matches everything.
func Matches(query, name string) bool {
	q := Normalize(query)
	if q == "" {
		return true
	}
	return containsNormalized(name, q)
}

func containsNormalized(name, normalizedQuery string) bool {
	return strings.Contains(Normalize(name), normalizedQuery)
}
