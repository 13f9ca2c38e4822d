package cli

import (
	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/nrcell-audit/audit"
	"github.com/jalad-shrimali/nrcell-audit/loader"
	"github.com/jalad-shrimali/nrcell-audit/matcher"
	"github.com/jalad-shrimali/nrcell-audit/report"
	"github.com/jalad-shrimali/nrcell-audit/ui"
)

var specSheets = []string{loader.SheetNRCellCU, loader.SheetNRCellDU}

func newCheckCmd(o *options) *cobra.Command {
	var cfg audit.Config
	cmd := &cobra.Command{
		Use:   "check",
		Short: "validate a parameter export against the specification",
		Long: `Resolve the expected value of every specified parameter for every exported cell,
compare it with the observed value and write <sheet>_Parameter_Validation.xlsx.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := o.prompt()
			if err := p.choose(&cfg.Sheet, "sheet", "Specification sheet:", specSheets); err != nil {
				return err
			}
			if err := p.input(&cfg.SpecPath, "spec", "Parameter specification workbook:"); err != nil {
				return err
			}
			if err := p.input(&cfg.DataPath, "data", "Data export workbook:"); err != nil {
				return err
			}
			cfg.Rules = o.rules

			res, err := audit.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out, err := report.WriteValidation(res, o.outDir)
			if err != nil {
				return err
			}

			stats := ui.StatsOf(res.Counts, matcher.Outcomes())
			stats = append(stats, ui.Stat{Label: "total", Value: res.Total})
			ui.PrintSummary(cfg.Sheet+" validation", stats)
			ui.PrintList("Parameters not found in data file", res.MissingParams)
			ui.PrintSuccess("report written to %s", out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Sheet, "sheet", "", "specification sheet: NRCellCU or NRCellDU")
	f.StringVar(&cfg.SpecPath, "spec", "", "parameter specification workbook")
	f.StringVar(&cfg.DataPath, "data", "", "data export workbook")
	f.StringVar(&cfg.NodesPath, "nodes", "", "node category workbook")
	f.StringVar(&cfg.NodesDB, "nodes-db", "", "node category sqlite database")
	return cmd
}
