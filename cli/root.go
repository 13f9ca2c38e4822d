// Package cli is the nrcell-audit command tree.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/nrcell-audit/logging"
	"github.com/jalad-shrimali/nrcell-audit/rules"
	"github.com/jalad-shrimali/nrcell-audit/ui"
)

const version = "0.3.0"

// options are the flags shared by every command.
type options struct {
	rulesPath string
	logLevel  string
	logFormat string
	noInput   bool
	outDir    string

	rules *rules.Set
}

func (o *options) prompt() prompter { return prompter{enabled: !o.noInput} }

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:     "nrcell-audit",
		Short:   "Audit NR cell parameters and feature licences against the operator specification",
		Version: version,
		Long: `Validate NRCellCU / NRCellDU parameter exports and feature states against the
operator parameter specification, and keep that specification in sync with its
updated editions.`,
		Example: `  # Check an NRCellDU export, prompting for anything not given
  $ nrcell-audit check --sheet NRCellDU --spec params.xlsx --data export.xlsx

  # Validate feature activation
  $ nrcell-audit licence --spec params.xlsx --data features.xlsx --nodes nodes.xlsx

  # Pull the parameter list out of a LAB dump
  $ nrcell-audit extract lab.txt --section NRCellDU --names params.txt

  # Carry an updated specification into the old one
  $ nrcell-audit compare --old params.xlsx --new params_v2.xlsx --sheet NRCellCU --params params.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Setup(logging.Config{Level: o.logLevel, Format: o.logFormat}); err != nil {
				return err
			}
			rs, err := rules.Load(o.rulesPath)
			if err != nil {
				return err
			}
			o.rules = rs
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&o.rulesPath, "rules", "", "rule file replacing the built-in rules (TOML)")
	pf.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
	pf.BoolVar(&o.noInput, "no-input", false, "never prompt; missing inputs are errors")
	pf.StringVarP(&o.outDir, "out", "o", ".", "directory for generated reports")

	root.AddCommand(
		newCheckCmd(o),
		newLicenceCmd(o),
		newExtractCmd(o),
		newCompareCmd(o),
	)
	return root
}

// Execute runs the command tree; a returned error has already been printed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}
