// Package audit runs a parameter check end to end: it loads the inputs,
// resolves and matches every (parameter, cell) pair and hands back a Result
// ready for the report writer.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jalad-shrimali/nrcell-audit/licence"
	"github.com/jalad-shrimali/nrcell-audit/loader"
	"github.com/jalad-shrimali/nrcell-audit/matcher"
	"github.com/jalad-shrimali/nrcell-audit/network"
	"github.com/jalad-shrimali/nrcell-audit/rules"
)

type Config struct {
	SpecPath string
	Sheet    string // NRCellCU or NRCellDU
	DataPath string
	// NodesPath and NodesDB are alternative sources of node categories;
	// the workbook wins when both are set.
	NodesPath string
	NodesDB   string
	Rules     *rules.Set
}

// Row is one validated (parameter, cell) pair.
type Row struct {
	Value    string // observed value as displayed
	CellName string
	NeName   string
	CellType network.CellType
	NodeType string
	Result   matcher.Result
}

// Group holds the rows of one parameter in data-export order.
type Group struct {
	Spec matcher.ParameterSpec
	Rows []Row
}

type Result struct {
	RunID  string
	Sheet  string
	CoNode bool
	Groups []Group
	Counts map[matcher.Outcome]int
	Total  int
	// MissingParams are spec parameters with no column in the data export.
	MissingParams []string
	ReadOnly      []string
}

// Filter returns the rows with the given outcome, in report order.
func (r *Result) Filter(outcome matcher.Outcome) []Flat {
	var out []Flat
	for _, g := range r.Groups {
		for _, row := range g.Rows {
			if row.Result.Outcome == outcome {
				out = append(out, Flat{Parameter: g.Spec.Name, Row: row})
			}
		}
	}
	return out
}

// Flat is a Row carrying its parameter name.
type Flat struct {
	Parameter string
	Row
}

/* ──────────── loading ──────────── */

// LoadNodes reads the node-category table from the workbook or the sqlite
// file, whichever is given. With neither, the table is empty and node
// categories fall back to the name overrides of the rule set.
func LoadNodes(nodesPath, nodesDB string) (*network.Table, error) {
	switch {
	case strings.TrimSpace(nodesPath) != "":
		return loader.ReadNodeWorkbook(nodesPath)
	case strings.TrimSpace(nodesDB) != "":
		return loader.ReadNodeDB(nodesDB)
	}
	return network.NewTable(nil), nil
}

// Run loads every input named by cfg and checks it. Any load failure is
// returned before a single row is validated.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	rs := cfg.Rules
	if rs == nil {
		rs = rules.Default()
	}
	log := slog.With("sheet", cfg.Sheet)

	spec, err := loader.ReadParameterSpec(cfg.SpecPath, cfg.Sheet, rs)
	if err != nil {
		return nil, fmt.Errorf("load parameter spec: %w", err)
	}
	log.Info("parameter spec loaded", "params", len(spec.Params), "read_only", len(spec.ReadOnly))

	data, err := loader.ReadDataExport(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load data export: %w", err)
	}
	log.Info("data export loaded", "rows", len(data.Rows), "columns", len(data.Columns))

	tbl, err := LoadNodes(cfg.NodesPath, cfg.NodesDB)
	if err != nil {
		return nil, fmt.Errorf("load node categories: %w", err)
	}
	log.Info("node categories loaded", "nodes", tbl.Len())

	return Check(ctx, spec, data, matcher.New(rs), rs, tbl)
}

/* ──────────── checking ──────────── */

// Check validates every spec parameter against every data row. Groups follow
// spec order and rows follow export order, so a report can merge each
// parameter's spec cells over a contiguous block.
func Check(ctx context.Context, spec *loader.SpecSheet, data *loader.DataExport, m *matcher.Matcher, rs *rules.Set, tbl *network.Table) (*Result, error) {
	res := &Result{
		RunID:    uuid.NewString(),
		Sheet:    spec.Sheet,
		CoNode:   spec.CoNode,
		Counts:   map[matcher.Outcome]int{},
		ReadOnly: spec.ReadOnly,
	}
	log := slog.With("run_id", res.RunID, "sheet", spec.Sheet)
	norm := rs.Normalizer()

	ctxs := make([]network.Context, len(data.Rows))
	for i, r := range data.Rows {
		ctxs[i] = network.NewContext(rs, tbl, r.CellName, r.NeName)
	}

	for _, p := range spec.Params {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !data.Has(p.Name) {
			res.MissingParams = append(res.MissingParams, p.Name)
			continue
		}
		g := Group{Spec: p, Rows: make([]Row, 0, len(data.Rows))}
		for i, r := range data.Rows {
			v := data.Value(r, p.Name)
			c := ctxs[i]
			out := m.Validate(p, matcher.Observation{
				Parameter: p.Name,
				Value:     v,
				CellName:  r.CellName,
				NeName:    r.NeName,
			}, c)
			g.Rows = append(g.Rows, Row{
				Value:    norm.Display(v),
				CellName: r.CellName,
				NeName:   r.NeName,
				CellType: c.CellType,
				NodeType: c.Category,
				Result:   out,
			})
			res.Counts[out.Outcome]++
			res.Total++
		}
		res.Groups = append(res.Groups, g)
	}

	log.Info("check finished",
		"rows", res.Total,
		"incorrect", res.Counts[matcher.Incorrect],
		"no_data", res.Counts[matcher.NoData],
		"missing_params", len(res.MissingParams))
	return res, nil
}

/* ──────────── licences ──────────── */

type LicenceConfig struct {
	SpecPath  string
	DataPath  string
	NodesPath string
	NodesDB   string
	Rules     *rules.Set
}

type LicenceResult struct {
	RunID    string
	Features int // rows of the feature sheet
	licence.Result
}

// RunLicence validates the feature-state export against the activation rules
// of the feature sheet.
func RunLicence(ctx context.Context, cfg LicenceConfig) (*LicenceResult, error) {
	rs := cfg.Rules
	if rs == nil {
		rs = rules.Default()
	}
	features, err := loader.ReadFeatures(cfg.SpecPath)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	states, err := loader.ReadFeatureStates(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load feature states: %w", err)
	}
	tbl, err := LoadNodes(cfg.NodesPath, cfg.NodesDB)
	if err != nil {
		return nil, fmt.Errorf("load node categories: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &LicenceResult{
		RunID:    uuid.NewString(),
		Features: len(features),
		Result:   licence.NewValidator(rs, tbl, nil).Check(features, states),
	}
	slog.Info("licence check finished",
		"run_id", res.RunID,
		"features", len(features),
		"rows", len(res.Rows),
		"incorrect", res.Counts[licence.Incorrect],
		"not_found", len(res.NotFound))
	return res, nil
}
