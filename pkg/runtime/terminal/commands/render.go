package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/runtime/app"
	"github.com/de-tools/shopping-atlas/pkg/runtime/terminal/report"
	"github.com/spf13/cobra"
)

// Loader opens the configured dataset for a single command run.
type Loader func(ctx context.Context) (*app.App, error)

type RenderCmd struct {
	load    Loader
	filters FilterFlags
}

func NewRenderCmd(load Loader) *cobra.Command {
	rc := &RenderCmd{load: load}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the dashboard for the given filters",
		RunE:  rc.run,
	}
	rc.filters.Register(cmd)
	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, _ []string) error {
	vm, a, err := renderDashboard(cmd, rc.load, &rc.filters)
	if err != nil {
		return err
	}
	defer a.Close()

	return report.NewReporter(cmd.OutOrStdout()).Handle(&vm)
}

// renderDashboard loads the dataset and renders it for the command's filter flags.
// The caller closes the returned App.
func renderDashboard(cmd *cobra.Command, load Loader, filters *FilterFlags) (domain.ViewModel, *app.App, error) {
	ctx := cmd.Context()

	a, err := load(ctx)
	if err != nil {
		return domain.ViewModel{}, nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	spec, err := filters.Spec(cmd, a.Renderer.Options())
	if err != nil {
		_ = a.Close()
		return domain.ViewModel{}, nil, err
	}

	vm, err := a.Renderer.Render(ctx, spec)
	if err != nil {
		_ = a.Close()
		return domain.ViewModel{}, nil, err
	}
	return vm, a, nil
}
