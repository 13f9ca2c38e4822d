package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/nrcell-audit/audit"
	"github.com/jalad-shrimali/nrcell-audit/licence"
	"github.com/jalad-shrimali/nrcell-audit/report"
	"github.com/jalad-shrimali/nrcell-audit/ui"
)

func newLicenceCmd(o *options) *cobra.Command {
	var cfg audit.LicenceConfig
	cmd := &cobra.Command{
		Use:     "licence",
		Aliases: []string{"license"},
		Short:   "validate feature states against the activation rules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := o.prompt()
			if err := p.input(&cfg.SpecPath, "spec", "Workbook with the \"Features + Licenses\" sheet:"); err != nil {
				return err
			}
			if err := p.input(&cfg.DataPath, "data", "Feature state export workbook:"); err != nil {
				return err
			}
			cfg.Rules = o.rules

			res, err := audit.RunLicence(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out, err := report.WriteLicence(res, o.outDir)
			if err != nil {
				return err
			}

			stats := ui.StatsOf(res.Counts, licence.Statuses())
			stats = append(stats,
				ui.Stat{Label: "features", Value: res.Features},
				ui.Stat{Label: "sites", Value: res.Sites})
			ui.PrintSummary("Licence validation", stats)
			var missing []string
			for _, f := range res.NotFound {
				missing = append(missing, fmt.Sprintf("%s (FeatureState: %s)", f.Name, f.StateID))
			}
			ui.PrintList("Features not found in data file", missing)
			ui.PrintSuccess("report written to %s", out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.SpecPath, "spec", "", "workbook with the feature specification sheet")
	f.StringVar(&cfg.DataPath, "data", "", "feature state export workbook")
	f.StringVar(&cfg.NodesPath, "nodes", "", "node category workbook")
	f.StringVar(&cfg.NodesDB, "nodes-db", "", "node category sqlite database")
	return cmd
}
