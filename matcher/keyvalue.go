package matcher

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jalad-shrimali/nrcell-audit/rules"
)

var alphaWordRE = regexp.MustCompile(`[a-z]+`)

// FuzzyKeyMatch reports whether two parameter-path keys name the same thing
// once their telecom prefixes are stripped: "EnergyEfficiency" matches
// "vsDataEnergyEfficiency".
func FuzzyKeyMatch(rs *rules.Set, expectedKey, actualKey string) bool {
	e := rs.StripKeyPrefix(expectedKey)
	a := rs.StripKeyPrefix(actualKey)
	if e == "" || a == "" {
		return false
	}
	if e == a || strings.Contains(a, e) || strings.Contains(e, a) {
		return true
	}
	ew := wordSet(e)
	aw := wordSet(a)
	if len(ew) == 0 || len(aw) == 0 {
		return false
	}
	common := 0
	for w := range ew {
		if _, ok := aw[w]; ok {
			common++
		}
	}
	return common >= min(len(ew), len(aw))
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range alphaWordRE.FindAllString(s, -1) {
		set[w] = struct{}{}
	}
	return set
}

type pair struct {
	key, value string
}

// parsePairs splits "k1=v1, k2=v2" into pairs, keeping their order. Segments
// without "=" are ignored.
func parsePairs(s string) []pair {
	var out []pair
	for _, seg := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		out = append(out, pair{strings.TrimSpace(k), strings.TrimSpace(v)})
	}
	return out
}

// findKeyValue searches a distinguished-name style string for a segment
// whose key fuzzy-matches key and whose value equals value.
func findKeyValue(rs *rules.Set, key, value, actual string) bool {
	actual = strings.TrimSpace(actual)
	if actual == "" {
		return false
	}
	if key != "" && containsToken(actual, key+"="+value) {
		return true
	}
	for _, p := range parsePairs(actual) {
		if p.value == value && FuzzyKeyMatch(rs, key, p.key) {
			return true
		}
	}
	return false
}

// allPairsFound reports whether every key=value pair of expected occurs in actual.
func allPairsFound(rs *rules.Set, expected, actual string) bool {
	pairs := parsePairs(expected)
	if len(pairs) == 0 {
		return false
	}
	for _, p := range pairs {
		if p.key == "" || !findKeyValue(rs, p.key, p.value, actual) {
			return false
		}
	}
	return true
}

// containsToken reports whether needle occurs in haystack as a whole token:
// "BWPSet=1" is not found in "BWPSet=11" and "5" is not found in "15". A
// needle starting with a separator such as "=" only checks its end.
func containsToken(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	h := strings.ToLower(haystack)
	n := strings.ToLower(needle)
	first, _ := utf8.DecodeRuneInString(n)
	checkStart := isWordRune(first)
	for from := 0; ; {
		i := strings.Index(h[from:], n)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(n)
		before := true
		if checkStart && start > 0 {
			r, _ := utf8.DecodeLastRuneInString(h[:start])
			before = !isWordRune(r)
		}
		after := true
		if end < len(h) {
			r, _ := utf8.DecodeRuneInString(h[end:])
			after = !isWordRune(r)
		}
		if before && after {
			return true
		}
		from = start + 1
	}
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
