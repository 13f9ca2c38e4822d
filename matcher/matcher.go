// Package matcher decides whether an observed parameter value satisfies the
// expected value written in the parameter specification.
//
// Validation is classify-then-apply: the resolved expected cell is classified
// by its textual shape (operator-tagged, node-tagged, key=value, value with
// explanation, ...) and the kind-specific comparison runs alongside a fixed
// chain of fallbacks. Every path ends in one Outcome; nothing here returns an
// error.
package matcher

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
	"github.com/jalad-shrimali/nrcell-audit/network"
	"github.com/jalad-shrimali/nrcell-audit/rules"
)

type Outcome string

const (
	Skipped          Outcome = "skipped"
	NoData           Outcome = "no_data"
	Correct          Outcome = "correct"
	CorrectExtracted Outcome = "correct_extracted"
	CorrectFuzzy     Outcome = "correct_fuzzy"
	CorrectNumeric   Outcome = "correct_numeric"
	NoExpectedValue  Outcome = "no_expected_value"
	Incorrect        Outcome = "incorrect"
)

// Outcomes lists the outcome alphabet in priority order.
func Outcomes() []Outcome {
	return []Outcome{Skipped, NoData, Correct, CorrectExtracted, CorrectFuzzy, CorrectNumeric, NoExpectedValue, Incorrect}
}

func (o Outcome) IsCorrect() bool {
	switch o {
	case Correct, CorrectExtracted, CorrectFuzzy, CorrectNumeric:
		return true
	}
	return false
}

// Result is the verdict for one (spec, observation) pair.
type Result struct {
	Outcome Outcome
	// Expected is the expected value used for the comparison, empty when
	// none applied.
	Expected string
	Column   Column
	Pattern  PatternKind
}

// Matcher is safe for concurrent use; it holds only the compiled rule set.
type Matcher struct {
	rules *rules.Set
	norm  *cellvalue.Normalizer
	cls   classifier
	log   *slog.Logger
}

func New(rs *rules.Set) *Matcher {
	return &Matcher{
		rules: rs,
		norm:  rs.Normalizer(),
		cls:   newClassifier(rs),
		log:   slog.Default().With("component", "matcher"),
	}
}

// Classify exposes the pattern classifier.
func (m *Matcher) Classify(expected cellvalue.Value) PatternKind { return m.cls.Classify(expected) }

// Validate resolves the expected value for obs and compares it.
func (m *Matcher) Validate(spec ParameterSpec, obs Observation, ctx network.Context) Result {
	if m.rules.IsSkipped(spec.Name) {
		return Result{Outcome: Skipped}
	}
	actualEmpty := m.norm.IsEmptyOrNA(obs.Value)

	if m.rules.IsCellLocalID(spec.Name) {
		if want, ok := m.rules.CellLocalID(ctx.CellName); ok {
			res := Result{Expected: want, Column: ColumnCellLocalID, Pattern: PatternExactMatch}
			switch got, _ := m.norm.Normalize(obs.Value); {
			case actualEmpty:
				res.Outcome = NoData
			case got == want:
				res.Outcome = Correct
			default:
				res.Outcome = Incorrect
			}
			return res
		}
	}

	if actualEmpty && m.rules.IsLegacyGeneration(ctx.Node.Gen) {
		return Result{Outcome: Correct}
	}

	r := m.Resolve(spec, ctx)
	if !r.Found() {
		if r.AllEmpty {
			if actualEmpty {
				return Result{Outcome: Correct, Pattern: PatternNoExpectedValue}
			}
			return Result{Outcome: Incorrect, Pattern: PatternNoExpectedValue}
		}
		return Result{Outcome: NoExpectedValue, Pattern: PatternNoExpectedValue}
	}

	res := Result{Expected: r.Text(), Column: r.Column}
	if actualEmpty {
		res.Outcome = NoData
		return res
	}
	res.Pattern = m.cls.Classify(r.Value)
	res.Outcome = m.compare(r.Value, obs.Value, res.Pattern, ctx)
	m.log.Debug("validated",
		"parameter", spec.Name,
		"cell", ctx.CellName,
		"expected", res.Expected,
		"actual", obs.Value.String(),
		"pattern", res.Pattern,
		"outcome", res.Outcome)
	return res
}

// compare runs the method chain; the first method that succeeds decides
// the outcome.
func (m *Matcher) compare(expected, actual cellvalue.Value, kind PatternKind, ctx network.Context) Outcome {
	expStr := strings.TrimSpace(expected.String())
	actStr := strings.TrimSpace(actual.String())
	actNorm, _ := m.norm.Normalize(actual)

	if expNorm, ok := m.norm.Normalize(expected); ok && expNorm == actNorm {
		return Correct
	}
	if kind == PatternValueWithExplanation && m.matchLeading(expStr, actNorm) {
		return CorrectExtracted
	}
	if m.applySpecial(kind, expStr, actStr, ctx) {
		return CorrectFuzzy
	}
	// a tagged value belongs to one operator or node; its leading token
	// says nothing about the others
	if !kind.isTagged() {
		if lead, ok := m.norm.ExtractLeadingValue(expected); ok && lead != expStr {
			if n, _ := m.norm.NormalizeText(lead); n == actNorm {
				return CorrectExtracted
			}
		}
		if strings.Contains(expStr, "=") && allPairsFound(m.rules, expStr, actStr) {
			return CorrectFuzzy
		}
	}
	if e, ok := cellvalue.ParseNumber(expStr); ok {
		if a, ok := cellvalue.ParseNumber(actStr); ok && a == e {
			return CorrectNumeric
		}
	}
	return Incorrect
}

func (m *Matcher) matchLeading(expected, actNorm string) bool {
	lead, ok := m.norm.ExtractLeadingValue(cellvalue.Parse(expected))
	if !ok {
		return false
	}
	n, _ := m.norm.NormalizeText(lead)
	return n == actNorm
}

func (m *Matcher) applySpecial(kind PatternKind, expected, actual string, ctx network.Context) bool {
	switch kind {
	case PatternOperatorSpecific:
		return m.applyOperator(expected, actual, ctx)
	case PatternNodeSpecific, PatternNodeSpecificMultiple:
		return m.applyNode(expected, actual, ctx)
	case PatternKeyValuePairs:
		return allPairsFound(m.rules, expected, actual)
	case PatternSingleKeyValue:
		k, v, _ := strings.Cut(expected, "=")
		k = strings.TrimSpace(k)
		return k != "" && findKeyValue(m.rules, k, strings.TrimSpace(v), actual)
	case PatternPartialMatch:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
	}
	return false
}

// matchClause compares a tag-selected fragment of the expected value with the
// actual value. Actual values are often full distinguished-name paths, so a
// key=value fragment found as a whole token inside them also counts; a bare
// value must equal the actual value.
func (m *Matcher) matchClause(fragment, actual string) bool {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return false
	}
	actNorm, _ := m.norm.NormalizeText(actual)
	if n, ok := m.norm.NormalizeText(fragment); ok && n == actNorm {
		return true
	}
	if m.matchLeading(fragment, actNorm) {
		return true
	}
	if k, v, ok := strings.Cut(fragment, "="); ok {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && findKeyValue(m.rules, k, v, actual) {
			return true
		}
		if k == "" {
			// "=11": a value continuing the key of a sibling clause
			return containsToken(actual, "="+v)
		}
		return containsToken(actual, fragment)
	}
	return false
}

/* ──────────── operator-specific ──────────── */

var (
	operatorAssignRE = regexp.MustCompile(`(?i)\b(BYT|SFR)\s*[=:]\s*([^\s,;/()]+)`)
	operatorSuffixRE = regexp.MustCompile(`(?i)\(\s*(BYT|SFR)\s*\)`)
	clauseSplitRE    = regexp.MustCompile(`[/;,\n]`)
)

type tagged struct {
	tag   string
	value string
}

// operatorClauses parses "BYT=1 SFR=11" and "BWPSet=1 (BYT) / =11 (SFR)".
// Untagged clauses come back with an empty tag.
func operatorClauses(expected string) []tagged {
	var out []tagged
	for _, m := range operatorAssignRE.FindAllStringSubmatch(expected, -1) {
		out = append(out, tagged{strings.ToUpper(m[1]), m[2]})
	}
	if len(out) > 0 {
		return out
	}
	for _, clause := range strings.FieldsFunc(expected, func(r rune) bool { return r == '/' || r == ';' || r == '\n' }) {
		tag := ""
		if m := operatorSuffixRE.FindStringSubmatch(clause); m != nil {
			tag = strings.ToUpper(m[1])
			clause = operatorSuffixRE.ReplaceAllString(clause, " ")
		}
		if v := strings.TrimSpace(clause); v != "" {
			out = append(out, tagged{tag, v})
		}
	}
	return out
}

func (m *Matcher) applyOperator(expected, actual string, ctx network.Context) bool {
	clauses := operatorClauses(expected)
	var picked *tagged
	switch ctx.Operator {
	case network.BYT, network.SFR:
		picked = pickTag(clauses, string(ctx.Operator))
	default:
		// unknown operator: the first tag listed is the TDD side, the
		// second the FDD side
		var tags []*tagged
		for i := range clauses {
			if clauses[i].tag != "" {
				tags = append(tags, &clauses[i])
			}
		}
		switch {
		case ctx.CellType == network.TDD && len(tags) > 0:
			picked = tags[0]
		case ctx.CellType == network.FDD && len(tags) > 1:
			picked = tags[1]
		}
	}
	return picked != nil && m.matchClause(picked.value, actual)
}

// pickTag returns the clause tagged tag, else the first untagged clause.
func pickTag(clauses []tagged, tag string) *tagged {
	var fallback *tagged
	for i := range clauses {
		switch {
		case strings.EqualFold(clauses[i].tag, tag):
			return &clauses[i]
		case clauses[i].tag == "" && fallback == nil:
			fallback = &clauses[i]
		}
	}
	return fallback
}

/* ──────────── node-specific ──────────── */

var profileRE = regexp.MustCompile(`(?i)profile\s*=\s*(\d+)`)

func (m *Matcher) applyNode(expected, actual string, ctx network.Context) bool {
	if ctx.IsCoNode() && profileRE.MatchString(expected) && m.matchProfile(actual, ctx.CellType) {
		return true
	}

	var (
		clauses []tagged
		tagSet  = map[string]struct{}{}
	)
	for _, c := range clauseSplitRE.Split(expected, -1) {
		if strings.TrimSpace(c) == "" {
			continue
		}
		tags := m.cls.tagsIn(c)
		t := tagged{value: m.cls.stripTags(c)}
		if len(tags) > 0 {
			t.tag = tags[0]
			for _, tg := range tags {
				tagSet[strings.ToUpper(tg)] = struct{}{}
			}
		}
		clauses = append(clauses, t)
	}

	for i := range clauses {
		if clauses[i].tag != "" && nodeHasTag(ctx, clauses[i].tag) {
			return m.matchClause(clauses[i].value, actual)
		}
	}
	for i := range clauses {
		if clauses[i].tag == "" && clauses[i].value != "" {
			return m.matchClause(clauses[i].value, actual)
		}
	}
	if len(tagSet) == 1 {
		lead, ok := m.norm.ExtractLeadingValue(cellvalue.Parse(expected))
		return ok && m.matchClause(lead, actual)
	}
	// two or more tags and none applies: no silent fallback
	return false
}

// matchProfile applies the co-node convention: Profile=0 on TDD cells,
// Profile=1 on FDD cells.
func (m *Matcher) matchProfile(actual string, ct network.CellType) bool {
	want := ""
	switch ct {
	case network.TDD:
		want = "0"
	case network.FDD:
		want = "1"
	default:
		return false
	}
	if containsToken(actual, "Profile="+want) {
		return true
	}
	if mm := profileRE.FindStringSubmatch(actual); mm != nil {
		return mm[1] == want
	}
	return findKeyValue(m.rules, "Profile", want, actual)
}

func nodeHasTag(ctx network.Context, tag string) bool {
	switch strings.ToUpper(tag) {
	case "TDD":
		return ctx.CellType == network.TDD
	case "FDD":
		return ctx.CellType == network.FDD
	}
	return ctx.HasTag(tag)
}

var enRE = regexp.MustCompile(`(?i)\ben\s*$`)

// stripTags removes tag markers ("en ZTD", "(TDD)") from a clause, leaving
// its value.
func (c classifier) stripTags(clause string) string {
	s := cellTagRE.ReplaceAllString(clause, " ")
	for _, t := range c.nodeTags {
		s = t.re.ReplaceAllString(s, " ")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(enRE.ReplaceAllString(s, ""))
}
