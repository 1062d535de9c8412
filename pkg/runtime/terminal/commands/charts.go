package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/shopping-atlas/pkg/services/charts"
	"github.com/spf13/cobra"
)

type ChartsCmd struct {
	load    Loader
	outDir  string
	filters FilterFlags
}

func NewChartsCmd(load Loader) *cobra.Command {
	cc := &ChartsCmd{load: load}
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Write every dashboard chart as a PNG file",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.outDir, "out", "", "Directory to write the charts to")
	_ = cmd.MarkFlagRequired("out")
	cc.filters.Register(cmd)

	return cmd
}

func (cc *ChartsCmd) run(cmd *cobra.Command, _ []string) error {
	vm, a, err := renderDashboard(cmd, cc.load, &cc.filters)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := os.MkdirAll(cc.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, req := range vm.Charts {
		path := filepath.Join(cc.outDir, string(req.Name)+".png")
		err := writeChart(path, func(f *os.File) error {
			return charts.Render(f, req.Name, vm.Aggregates)
		})
		if errors.Is(err, charts.ErrNoData) {
			fmt.Fprintf(out, "%s: no data\n", req.Title)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", req.Title, path)
	}
	return nil
}

// writeChart removes the file again when rendering fails.
func writeChart(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	renderErr := render(f)
	closeErr := f.Close()
	if renderErr != nil {
		_ = os.Remove(path)
		return renderErr
	}
	return closeErr
}
