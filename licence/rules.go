package licence

import (
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
	"github.com/jalad-shrimali/nrcell-audit/network"
)

// Decision is what an activation rule says about one node.
type Decision int

const (
	Unknown Decision = iota
	Active
	Inactive
)

func (d Decision) String() string {
	switch d {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	}
	return "unknown"
}

// Tri is a node fact that the node table may not know.
type Tri int

const (
	TriUnknown Tri = iota
	TriYes
	TriNo
)

func triOf(b bool) Tri {
	if b {
		return TriYes
	}
	return TriNo
}

// Facts are the node attributes activation rules look at.
type Facts struct {
	Letter string // E, X, G or "" when the node name follows no convention
	DualCo Tri
	ZTD    Tri
	CRZ    Tri
	CoNode Tri
	FDD    Tri
}

// FactsFrom derives the rule facts for a node. A node missing from the table
// only gets the facts its name-based category asserts; the rest stay unknown.
func FactsFrom(ctx network.Context, norm *cellvalue.Normalizer) Facts {
	f := Facts{Letter: ctx.NodeLetter()}
	if !ctx.Node.Known {
		if ctx.HasTag("ZTD") {
			f.ZTD = TriYes
		}
		if ctx.HasTag("CRZ") {
			f.CRZ = TriYes
		}
		if ctx.IsCoNode() {
			f.CoNode, f.FDD = TriYes, TriYes
		}
		return f
	}
	f.ZTD = triOf(ctx.HasTag("ZTD"))
	f.CRZ = triOf(ctx.HasTag("CRZ"))
	f.CoNode = triOf(ctx.IsCoNode())
	f.FDD = triOf(ctx.IsCoNode() || strings.Contains(strings.ToUpper(ctx.Node.Cell), "FDD"))
	f.DualCo = dualCo(ctx.Node.DualCo, norm)
	return f
}

func dualCo(raw string, norm *cellvalue.Normalizer) Tri {
	if norm.IsEmptyOrNAText(raw) {
		return TriUnknown
	}
	if b, ok := norm.BoolWord(strings.TrimSpace(raw)); ok {
		return triOf(b == "true")
	}
	f := cellvalue.Fold(raw)
	if strings.HasPrefix(f, "non") || strings.Contains(f, "not") {
		return TriNo
	}
	return TriYes
}

func (f Facts) letterIn(letters ...string) bool {
	for _, l := range letters {
		if f.Letter == l {
			return true
		}
	}
	return false
}

/* ──────────── rules ──────────── */

// Rule is one activation-rule form. Match sees the accent- and case-folded
// rule text.
type Rule struct {
	Name   string
	Match  func(text string) bool
	Decide func(f Facts) Decision
}

func containsAny(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

func always(d Decision) func(Facts) Decision { return func(Facts) Decision { return d } }

func activeFor(letters ...string) func(Facts) Decision {
	return func(f Facts) Decision {
		if f.letterIn(letters...) {
			return Active
		}
		return Inactive
	}
}

// activeUnless activates when the fact holds or is unknown.
func activeUnless(get func(Facts) Tri) func(Facts) Decision {
	return func(f Facts) Decision {
		if get(f) == TriNo {
			return Inactive
		}
		return Active
	}
}

// DefaultRules is the activation rule set of the feature sheet, node-specific
// forms before general ones.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "not applicable",
			Match:  func(t string) bool { return t == "n/a" || t == "na" },
			Decide: always(Unknown),
		},
		{
			Name:   "do not activate",
			Match:  containsAny("ne pas activer"),
			Decide: always(Inactive),
		},
		{
			Name:   "deactivate on E and X",
			Match:  containsAny("a desactiver sur sites e et x"),
			Decide: always(Inactive),
		},
		{
			Name:  "E and X eligible for dual-co",
			Match: containsAny("dual-co", "dual co", "dualco"),
			Decide: func(f Facts) Decision {
				if !f.letterIn("E", "X") || f.DualCo == TriNo {
					return Inactive
				}
				return Active
			},
		},
		{
			Name:  "E and X in ZTD",
			Match: containsAny("en ztd"),
			Decide: func(f Facts) Decision {
				if !f.letterIn("E", "X") || f.ZTD == TriNo {
					return Inactive
				}
				return Active
			},
		},
		{
			Name:  "G in CRZ",
			Match: containsAny("site g en crz"),
			Decide: func(f Facts) Decision {
				if f.Letter != "G" || f.CRZ == TriNo {
					return Inactive
				}
				return Active
			},
		},
		{
			Name:   "generalised in CRZ",
			Match:  containsAny("generalise en crz"),
			Decide: activeUnless(func(f Facts) Tri { return f.CRZ }),
		},
		{
			Name:   "mixed mode",
			Match:  containsAny("mixed mode"),
			Decide: activeUnless(func(f Facts) Tri { return f.CoNode }),
		},
		{
			Name:   "ESS mode",
			Match:  containsAny("mode ess"),
			Decide: activeUnless(func(f Facts) Tri { return f.FDD }),
		},
		{
			Name:   "G and X",
			Match:  containsAny("sites g et x", "site g et x", "site g + x", "sites g + x"),
			Decide: activeFor("G", "X"),
		},
		{
			Name:   "E and X",
			Match:  containsAny("sites e et x"),
			Decide: activeFor("E", "X"),
		},
		{
			Name:   "X only",
			Match:  containsAny("site x"),
			Decide: activeFor("X"),
		},
		{
			Name:   "G only",
			Match:  containsAny("site g"),
			Decide: activeFor("G"),
		},
		{
			Name:   "activate",
			Match:  containsAny("pour tests", "au cas par cas", "a installer", "a activer"),
			Decide: always(Active),
		},
	}
}

// Engine evaluates activation rules in order; the first match decides.
type Engine struct {
	rules []Rule
}

func NewEngine(rules []Rule) *Engine { return &Engine{rules: rules} }

// Evaluate returns the decision for ruleText on a node and the name of the
// rule that made it. A node without a recognised letter is always Unknown.
func (e *Engine) Evaluate(ruleText string, f Facts) (Decision, string) {
	text := strings.Join(strings.Fields(cellvalue.Fold(ruleText)), " ")
	if text == "" || f.Letter == "" {
		return Unknown, ""
	}
	for _, r := range e.rules {
		if r.Match(text) {
			return r.Decide(f), r.Name
		}
	}
	return Unknown, ""
}
