package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/shopping-atlas/pkg/services/export"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	load    Loader
	outPath string
	filters FilterFlags
}

func NewExportCmd(load Loader) *cobra.Command {
	ec := &ExportCmd{load: load}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered rows and aggregations to an xlsx workbook",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.outPath, "out", "shopping-atlas.xlsx", "Workbook path")
	ec.filters.Register(cmd)

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	vm, a, err := renderDashboard(cmd, ec.load, &ec.filters)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Create(ec.outPath)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	defer f.Close()

	if err := export.WriteWorkbook(f, vm, a.Dataset.ExtraFields()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", vm.View.Len(), ec.outPath)
	return nil
}
