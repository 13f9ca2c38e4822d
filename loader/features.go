package loader

import (
	"fmt"
	"strings"

	"github.com/jalad-shrimali/nrcell-audit/licence"
)

const (
	SheetFeatures = "Features + Licenses"

	ColFeatureName  = "Feature name"
	ColFeatureState = "FeatureState"
	ColBytelNodes   = "Bytel nodes"
	ColSupported    = "BB / DU supported"
	ColActivation   = "A activer ou pas pour Bytel"

	ColFeatureStateID = "featureStateId"
	ColStateNeName    = "NeName"
	ColStateValue     = "featureState"
	ColServiceState   = "serviceState"
)

// ReadFeatures reads the feature specification sheet. Rows without a
// feature name are skipped.
func ReadFeatures(path string) ([]licence.Feature, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readSheet(f, SheetFeatures)
	if err != nil {
		return nil, err
	}
	if err := t.Require(ColFeatureName, ColBytelNodes, ColFeatureState, ColActivation); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", SheetFeatures, err)
	}
	var (
		iName  = t.Col(ColFeatureName)
		iState = t.Col(ColFeatureState)
		iNodes = t.Col(ColBytelNodes)
		iSup   = t.Col(ColSupported)
		iRule  = t.Col(ColActivation)
	)
	var out []licence.Feature
	for _, r := range t.Rows {
		name := strings.TrimSpace(Cell(r, iName))
		if name == "" {
			continue
		}
		out = append(out, licence.Feature{
			Name:       name,
			StateID:    strings.TrimSpace(Cell(r, iState)),
			BytelNodes: Cell(r, iNodes),
			Supported:  Cell(r, iSup),
			Rule:       Cell(r, iRule),
		})
	}
	return out, nil
}

// ReadFeatureStates reads the feature-state export from its first sheet.
func ReadFeatureStates(path string) ([]licence.StateRow, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readSheet(f, "")
	if err != nil {
		return nil, err
	}
	if err := t.Require(ColFeatureStateID, ColStateNeName, ColStateValue, ColServiceState); err != nil {
		return nil, fmt.Errorf("data file: %w", err)
	}
	var (
		iID   = t.Col(ColFeatureStateID)
		iNe   = t.Col(ColStateNeName)
		iVal  = t.Col(ColStateValue)
		iServ = t.Col(ColServiceState)
	)
	out := make([]licence.StateRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if len(r) == 0 {
			continue
		}
		out = append(out, licence.StateRow{
			FeatureStateID: strings.TrimSpace(Cell(r, iID)),
			NeName:         strings.TrimSpace(Cell(r, iNe)),
			FeatureState:   value(r, iVal),
			ServiceState:   value(r, iServ),
		})
	}
	return out, nil
}
