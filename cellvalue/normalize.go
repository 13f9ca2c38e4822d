package cellvalue

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Vocabulary lists the literal spellings the normalizer recognizes.
// Prefixes match a whole word plus a French inflection ("activé", "activée",
// "activer"); comparison is case- and accent-insensitive.
type Vocabulary struct {
	NAMarkers     []string `toml:"na_markers"`
	TrueWords     []string `toml:"true_words"`
	FalseWords    []string `toml:"false_words"`
	TruePrefixes  []string `toml:"true_prefixes"`
	FalsePrefixes []string `toml:"false_prefixes"`
}

// DefaultVocabulary is the vocabulary of the Bytel parameter workbooks.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		NAMarkers:     []string{"n/a", "null", "none", "nan", "empty", "vide", "-", "read-only"},
		TrueWords:     []string{"vrai", "true", "oui", "1", "yes", "on", "activated"},
		FalseWords:    []string{"faux", "false", "non", "0", "no", "off", "deactivated"},
		TruePrefixes:  []string{"activé"},
		FalsePrefixes: []string{"désactivé"},
	}
}

// Normalizer canonicalizes cell values. It is immutable once built and safe
// for concurrent use.
type Normalizer struct {
	na            map[string]struct{}
	trueWords     map[string]struct{}
	falseWords    map[string]struct{}
	truePrefixes  []string
	falsePrefixes []string
}

func NewNormalizer(v Vocabulary) *Normalizer {
	return &Normalizer{
		na:            foldSet(v.NAMarkers),
		trueWords:     foldSet(v.TrueWords),
		falseWords:    foldSet(v.FalseWords),
		truePrefixes:  foldList(v.TruePrefixes),
		falsePrefixes: foldList(v.FalsePrefixes),
	}
}

/* ──────────── folding ──────────── */

// Fold lower-cases s and strips diacritics: "Désactivé" -> "desactive".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return cases.Fold().String(out)
}

func foldSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[Fold(w)] = struct{}{}
	}
	return m
}

func foldList(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, Fold(w))
	}
	return out
}

var inflections = map[string]struct{}{"": {}, "e": {}, "s": {}, "es": {}, "r": {}}

func hasInflectedPrefix(word string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(word, p) {
			if _, ok := inflections[word[len(p):]]; ok {
				return true
			}
		}
	}
	return false
}

/* ──────────── contract ──────────── */

// IsEmptyOrNA reports whether v carries no usable data.
func (n *Normalizer) IsEmptyOrNA(v Value) bool {
	switch v.kind {
	case KindEmpty:
		return true
	case KindBool:
		return false
	case KindNumber:
		if math.IsNaN(v.n) {
			return true
		}
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return true
	}
	_, ok := n.na[Fold(s)]
	return ok
}

// IsEmptyOrNAText is IsEmptyOrNA for raw sheet text.
func (n *Normalizer) IsEmptyOrNAText(s string) bool { return n.IsEmptyOrNA(Parse(s)) }

// BoolWord returns the canonical boolean for a recognized spelling.
func (n *Normalizer) BoolWord(s string) (string, bool) {
	f := Fold(s)
	if _, ok := n.falseWords[f]; ok {
		return "false", true
	}
	if _, ok := n.trueWords[f]; ok {
		return "true", true
	}
	if hasInflectedPrefix(f, n.falsePrefixes) {
		return "false", true
	}
	if hasInflectedPrefix(f, n.truePrefixes) {
		return "true", true
	}
	return "", false
}

var zeroFractionRE = regexp.MustCompile(`^([+-]?\d+)\.0+$`)

// Normalize returns the canonical form of v, or ok=false when v is empty/NA.
// Normalize is idempotent: feeding its output back yields the same string.
func (n *Normalizer) Normalize(v Value) (string, bool) {
	if n.IsEmptyOrNA(v) {
		return "", false
	}
	if v.kind == KindBool {
		return v.String(), true
	}
	s := strings.TrimSpace(v.String())
	if m := zeroFractionRE.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if b, ok := n.BoolWord(s); ok {
		return b, true
	}
	return s, true
}

// NormalizeText is Normalize for raw sheet text.
func (n *Normalizer) NormalizeText(s string) (string, bool) { return n.Normalize(Parse(s)) }

var (
	leadingSplitRE = regexp.MustCompile(`[\s=]+`)
	numberUnitRE   = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)[A-Za-zµ%]+$`)
)

// ExtractLeadingValue pulls the value out of "value = explanation" or
// "value unit" cells: "14 = 14ms" -> "14", "-10 dBm" -> "-10", "20ms" -> "20".
func (n *Normalizer) ExtractLeadingValue(v Value) (string, bool) {
	if n.IsEmptyOrNA(v) {
		return "", false
	}
	s := strings.TrimSpace(v.String())
	var tokens []string
	for _, t := range leadingSplitRE.Split(s, -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return n.Normalize(v)
	}
	first := tokens[0]
	if IsDecimal(first) {
		return first, true
	}
	if _, ok := n.BoolWord(first); ok {
		return first, true
	}
	if m := numberUnitRE.FindStringSubmatch(first); m != nil {
		return m[1], true
	}
	return first, true
}

// Display converts textual boolean spellings to English for the report and
// leaves every other value, numbers included, as it appeared.
func (n *Normalizer) Display(v Value) string {
	if v.kind != KindText {
		return v.String()
	}
	if b, ok := n.BoolWord(v.s); ok {
		return b
	}
	return v.s
}
