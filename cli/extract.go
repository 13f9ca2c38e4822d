package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/nrcell-audit/loader"
	"github.com/jalad-shrimali/nrcell-audit/ui"
)

func newExtractCmd(o *options) *cobra.Command {
	var section, csvPath, namesPath string
	cmd := &cobra.Command{
		Use:   "extract [LAB_FILE]",
		Short: "list the parameters of a section of a LAB dump",
		Long: `Read the parameters that follow the "<section>=" line of a LAB text dump and
write them as a Struct;Parameter CSV (Extracted_params_<section>.csv by default).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := o.prompt()
			var lab string
			if len(args) > 0 {
				lab = args[0]
			}
			if err := p.input(&lab, "lab", "LAB text file:"); err != nil {
				return err
			}
			if err := p.choose(&section, "section", "Section:", specSheets); err != nil {
				return err
			}

			params, err := loader.ExtractLABFile(lab, section)
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = filepath.Join(o.outDir, fmt.Sprintf("Extracted_params_%s.csv", section))
			}
			if err := writeFile(csvPath, func(w io.Writer) error { return loader.WriteLabCSV(w, params) }); err != nil {
				return err
			}
			if namesPath != "" {
				if err := writeFile(namesPath, func(w io.Writer) error { return loader.WriteNames(w, params) }); err != nil {
					return err
				}
				ui.PrintInfo("parameter names written to %s", namesPath)
			}
			ui.PrintSuccess("%d parameters extracted to %s", len(params), csvPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&section, "section", "", "LAB section: NRCellCU or NRCellDU")
	f.StringVar(&csvPath, "csv", "", "CSV output path")
	f.StringVar(&namesPath, "names", "", "also write the parameter names, one per line, to this file")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
