package matcher

import (
	"regexp"
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
	"github.com/jalad-shrimali/nrcell-audit/rules"
)

// PatternKind is the textual shape of an expected-value cell.
type PatternKind string

const (
	PatternNoExpectedValue      PatternKind = "no_expected_value"
	PatternOperatorSpecific     PatternKind = "operator_specific"
	PatternNodeSpecific         PatternKind = "node_specific"
	PatternNodeSpecificMultiple PatternKind = "node_specific_multiple"
	PatternKeyValuePairs        PatternKind = "key_value_pairs"
	PatternValueWithExplanation PatternKind = "value_with_explanation"
	PatternSingleKeyValue       PatternKind = "single_key_value"
	PatternPartialMatch         PatternKind = "partial_match"
	PatternExactMatch           PatternKind = "exact_match"
)

func (k PatternKind) isTagged() bool {
	switch k {
	case PatternOperatorSpecific, PatternNodeSpecific, PatternNodeSpecificMultiple:
		return true
	}
	return false
}

var (
	bytRE      = regexp.MustCompile(`(?i)\bBYT\b`)
	sfrRE      = regexp.MustCompile(`(?i)\bSFR\b`)
	cellTagRE  = regexp.MustCompile(`(?i)\(\s*(TDD|FDD)\s*\)`)
	whitespace = regexp.MustCompile(`\s+`)
)

// classifier holds the word-boundary regexps compiled from the rule set.
type classifier struct {
	norm     *cellvalue.Normalizer
	nodeTags []tagRE
	partial  []*regexp.Regexp
}

type tagRE struct {
	tag string
	re  *regexp.Regexp
}

func newClassifier(rs *rules.Set) classifier {
	c := classifier{norm: rs.Normalizer()}
	for _, t := range rs.NodeTags() {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		c.nodeTags = append(c.nodeTags, tagRE{
			tag: t,
			re:  regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`),
		})
	}
	for _, k := range rs.PartialKeywords() {
		if k = strings.TrimSpace(k); k != "" {
			c.partial = append(c.partial, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(k)+`\b`))
		}
	}
	return c
}

// Classify returns the pattern of expected. The checks run in a fixed
// priority order and the first one that fires wins.
func (c classifier) Classify(expected cellvalue.Value) PatternKind {
	if c.norm.IsEmptyOrNA(expected) {
		return PatternNoExpectedValue
	}
	s := strings.TrimSpace(expected.String())

	if isOperatorSpecific(s) {
		return PatternOperatorSpecific
	}
	switch len(c.tagsIn(s)) {
	case 0:
	case 1:
		return PatternNodeSpecific
	default:
		return PatternNodeSpecificMultiple
	}
	if isKeyValuePairs(s) {
		return PatternKeyValuePairs
	}
	if c.isValueWithExplanation(s) {
		return PatternValueWithExplanation
	}
	if strings.Count(s, "=") == 1 && !strings.Contains(s, ",") {
		return PatternSingleKeyValue
	}
	for _, re := range c.partial {
		if re.MatchString(s) {
			return PatternPartialMatch
		}
	}
	return PatternExactMatch
}

func isOperatorSpecific(s string) bool {
	byt, sfr := bytRE.MatchString(s), sfrRE.MatchString(s)
	if byt && sfr {
		return true
	}
	return strings.Contains(s, "/") && (byt || sfr)
}

// tagsIn lists the distinct node and cell-type tags mentioned in s, in order
// of first appearance.
func (c classifier) tagsIn(s string) []string {
	type hit struct {
		tag string
		at  int
	}
	var hits []hit
	for _, t := range c.nodeTags {
		if loc := t.re.FindStringIndex(s); loc != nil {
			hits = append(hits, hit{t.tag, loc[0]})
		}
	}
	seen := map[string]bool{}
	for _, m := range cellTagRE.FindAllStringSubmatchIndex(s, -1) {
		tag := strings.ToUpper(s[m[2]:m[3]])
		if !seen[tag] {
			seen[tag] = true
			hits = append(hits, hit{tag, m[0]})
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].at < hits[j-1].at; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.tag
	}
	return out
}

func isKeyValuePairs(s string) bool {
	if !strings.Contains(s, ",") || !strings.Contains(s, "=") {
		return false
	}
	for _, seg := range strings.Split(s, ",") {
		if !strings.Contains(seg, "=") {
			return false
		}
	}
	return true
}

// isValueWithExplanation matches "14 = 14ms", "0 = DEACTIVATED", "true (default)".
// Only the literal true/false words lead a boolean explanation; "No limit" does not.
func (c classifier) isValueWithExplanation(s string) bool {
	fields := whitespace.Split(s, -1)
	if len(fields) < 2 {
		return false
	}
	return cellvalue.IsDecimal(fields[0]) ||
		strings.EqualFold(fields[0], "true") || strings.EqualFold(fields[0], "false")
}
