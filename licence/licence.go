// Package licence checks that the feature states reported by the network match
// the activation rules written, in French, in the feature specification sheet.
package licence

import (
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
	"github.com/jalad-shrimali/nrcell-audit/network"
	"github.com/jalad-shrimali/nrcell-audit/rules"
)

type Status string

const (
	Correct       Status = "CORRECT"
	Incorrect     Status = "INCORRECT"
	StatusUnknown Status = "UNKNOWN"
	NotFound      Status = "NOT FOUND"
)

func Statuses() []Status { return []Status{Correct, Incorrect, StatusUnknown, NotFound} }

// Feature is one row of the "Features + Licenses" sheet.
type Feature struct {
	Name       string
	StateID    string
	BytelNodes string
	Supported  string
	Rule       string
}

// StateRow is one row of the feature-state export.
type StateRow struct {
	FeatureStateID string
	NeName         string
	FeatureState   cellvalue.Value
	ServiceState   cellvalue.Value
}

// Row is one line of the licence report.
type Row struct {
	Feature      Feature
	NeName       string
	FeatureState string
	ServiceState string
	Status       Status
	Decision     Decision
	MatchedRule  string
}

type Result struct {
	Rows      []Row
	Incorrect []Row
	// NotFound lists features whose state id is absent from the export.
	NotFound []Feature
	Counts   map[Status]int
	Sites    int
}

type Validator struct {
	engine *Engine
	rules  *rules.Set
	table  *network.Table
}

func NewValidator(rs *rules.Set, table *network.Table, engine *Engine) *Validator {
	if engine == nil {
		engine = NewEngine(DefaultRules())
	}
	return &Validator{engine: engine, rules: rs, table: table}
}

// Check joins features to state rows on FeatureState == featureStateId. The
// output follows feature order, then export order within a feature.
func (v *Validator) Check(features []Feature, states []StateRow) Result {
	byID := map[string][]int{}
	for i, s := range states {
		id := strings.TrimSpace(s.FeatureStateID)
		byID[id] = append(byID[id], i)
	}

	res := Result{Counts: map[Status]int{}}
	sites := map[string]struct{}{}
	for _, f := range features {
		idx := byID[strings.TrimSpace(f.StateID)]
		if len(idx) == 0 || strings.TrimSpace(f.StateID) == "" {
			row := Row{
				Feature:      f,
				NeName:       string(NotFound),
				FeatureState: string(NotFound),
				ServiceState: string(NotFound),
				Status:       NotFound,
			}
			res.Rows = append(res.Rows, row)
			res.NotFound = append(res.NotFound, f)
			res.Counts[NotFound]++
			continue
		}
		for _, i := range idx {
			s := states[i]
			row := v.validate(f, s)
			res.Rows = append(res.Rows, row)
			res.Counts[row.Status]++
			if row.Status == Incorrect {
				res.Incorrect = append(res.Incorrect, row)
			}
			if n := strings.TrimSpace(s.NeName); n != "" {
				sites[n] = struct{}{}
			}
		}
	}
	res.Sites = len(sites)
	return res
}

func (v *Validator) validate(f Feature, s StateRow) Row {
	norm := v.rules.Normalizer()
	ctx := network.NewContext(v.rules, v.table, "", s.NeName)
	decision, rule := v.engine.Evaluate(f.Rule, FactsFrom(ctx, norm))

	row := Row{
		Feature:      f,
		NeName:       strings.TrimSpace(s.NeName),
		FeatureState: s.FeatureState.String(),
		ServiceState: s.ServiceState.String(),
		Decision:     decision,
		MatchedRule:  rule,
	}
	row.Status = statusOf(decision, s.FeatureState, norm)
	return row
}

// statusOf compares a decision with a reported state; 1 and ACTIVATED both
// read as active.
func statusOf(d Decision, state cellvalue.Value, norm *cellvalue.Normalizer) Status {
	if d == Unknown {
		return StatusUnknown
	}
	got, ok := norm.Normalize(state)
	switch {
	case ok && got == "true" && d == Active:
		return Correct
	case ok && got == "false" && d == Inactive:
		return Correct
	}
	return Incorrect
}
