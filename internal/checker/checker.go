// Package checker compares free-text answers with the accepted forms of a practice item.
// Matching is exact after normalisation; there is no typo tolerance.
package checker

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
	spaces        = regexp.MustCompile(`\s+`)
	heShe         = regexp.MustCompile(`(?i)he/she`)
)

// Normalize trims s and lowercases it with Finnish case mapping.
// Composed and decomposed forms of ä, ö and å compare equal.
func Normalize(s string) string {
	// A Caser keeps state and is not safe for concurrent use
	return cases.Lower(language.Finnish).String(strings.TrimSpace(norm.NFC.String(s)))
}

// EnglishVariants expands one accepted English translation into every form that counts as correct
func EnglishVariants(base string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = Normalize(spaces.ReplaceAllString(s, " "))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	add(base)
	for _, pronounForm := range expandHeShe(base) {
		for _, alt := range strings.Split(pronounForm, "/") {
			alt = strings.TrimSpace(alt)
			stripped := strings.TrimSpace(parenthetical.ReplaceAllString(alt, ""))
			for _, v := range []string{alt, stripped} {
				add(v)
				if rest, ok := cutPrefixFold(v, "to "); ok {
					add(rest)
				}
			}
		}
	}
	return out
}

// expandHeShe turns "he/she runs" into "he runs", "she runs", "runs" and the original text
func expandHeShe(s string) []string {
	loc := heShe.FindStringIndex(s)
	if loc == nil {
		return []string{s}
	}
	before, after := s[:loc[0]], s[loc[1]:]
	return []string{
		before + "he" + after,
		before + "she" + after,
		strings.TrimSpace(before + strings.TrimSpace(after)),
	}
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return strings.TrimSpace(s[len(prefix):]), true
}

// MatchEnglish reports whether answer equals any variant of any accepted translation
func MatchEnglish(answer string, accepted ...string) bool {
	a := Normalize(answer)
	if a == "" {
		return false
	}
	for _, base := range accepted {
		for _, v := range EnglishVariants(base) {
			if a == v {
				return true
			}
		}
	}
	return false
}

// MatchFinnish reports whether answer equals one of the accepted Finnish forms.
// Alternates are separated with "/"; nothing else is expanded.
func MatchFinnish(answer string, accepted ...string) bool {
	a := Normalize(answer)
	if a == "" {
		return false
	}
	for _, form := range accepted {
		for _, alt := range strings.Split(form, "/") {
			if a == Normalize(alt) {
				return true
			}
		}
	}
	return false
}

// Primary returns the canonical answer shown in feedback: the first alternative of the first form
func Primary(accepted ...string) string {
	for _, form := range accepted {
		first, _, _ := strings.Cut(form, "/")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return ""
}
