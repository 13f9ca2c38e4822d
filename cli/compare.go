package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/nrcell-audit/loader"
	"github.com/jalad-shrimali/nrcell-audit/report"
	"github.com/jalad-shrimali/nrcell-audit/specdiff"
	"github.com/jalad-shrimali/nrcell-audit/ui"
)

func newCompareCmd(o *options) *cobra.Command {
	var (
		oldPath, newPath, sheet, paramsPath, labPath string
		dryRun                                       bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "carry an updated specification into the old one",
		Long: `Compare the listed parameters of the old specification sheet with the
"LTE - NR parameters" sheet of the updated specification. Every differing cell of
the old workbook is rewritten in place with the new value and highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := o.prompt()
			if err := p.input(&oldPath, "old", "OLD specification workbook:"); err != nil {
				return err
			}
			if err := p.choose(&sheet, "sheet", "OLD specification sheet:", specSheets); err != nil {
				return err
			}
			if err := p.input(&newPath, "new", "UPDATED specification workbook:"); err != nil {
				return err
			}
			if err := p.input(&paramsPath, "params", "Parameter list (one name per line):"); err != nil {
				return err
			}
			if labPath == "" {
				ok, err := p.confirm("Check for new parameters from LAB?", false)
				if err != nil {
					return err
				}
				if ok {
					if err := p.input(&labPath, "lab", "LAB parameter list:"); err != nil {
						return err
					}
				}
			}

			params, err := loader.ReadNameList(paramsPath)
			if err != nil {
				return err
			}
			oldSheet, err := loader.ReadSheet(oldPath, sheet)
			if err != nil {
				return err
			}
			newSheet, err := loader.ReadSheet(newPath, specdiff.UpdatedSheet)
			if err != nil {
				return err
			}
			res, err := specdiff.Compare(oldSheet, newSheet, params)
			if err != nil {
				return err
			}

			var lab []string
			if labPath != "" {
				names, err := loader.ReadNameList(labPath)
				if err != nil {
					return err
				}
				if lab, err = specdiff.LabMissing(oldSheet, names); err != nil {
					return err
				}
				// non-nil, so the report keeps an empty LAB sheet
				lab = append([]string{}, lab...)
			}

			if !dryRun {
				n, err := specdiff.Apply(oldPath, sheet, res.Differences)
				if err != nil {
					return err
				}
				slog.Info("old specification updated", "path", oldPath, "cells", n)
			}
			out, err := report.WriteDiff(res, lab, o.outDir)
			if err != nil {
				return err
			}

			ui.PrintSummary("Specification comparison", []ui.Stat{
				{Label: "checked", Value: res.Checked},
				{Label: "differing cells", Value: len(res.Differences)},
				{Label: "missing in a file", Value: len(res.Missing)},
				{Label: "new in UPDATED", Value: len(res.NewOnly)},
			})
			ui.PrintList("Parameters in LAB but not in OLD", lab)
			if dryRun {
				ui.PrintWarning("dry run: %s left unchanged", oldPath)
			} else if len(res.Differences) > 0 {
				ui.PrintSuccess("%s updated in place", oldPath)
			}
			ui.PrintSuccess("summary written to %s", out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&oldPath, "old", "", "old specification workbook, updated in place")
	f.StringVar(&newPath, "new", "", "updated specification workbook")
	f.StringVar(&sheet, "sheet", "", "old specification sheet: NRCellCU or NRCellDU")
	f.StringVar(&paramsPath, "params", "", "parameter list to compare, one name per line")
	f.StringVar(&labPath, "lab", "", "LAB parameter list to check against the old specification")
	f.BoolVar(&dryRun, "dry-run", false, "report differences without touching the old workbook")
	return cmd
}
