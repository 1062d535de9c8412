package commands

import (
	"fmt"

	"github.com/de-tools/shopping-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	path string
}

func NewProfilesCmd() *cobra.Command {
	pc := &ProfilesCmd{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the dataset profiles",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.path, "file", config.DefaultProfilesPath(), "Path to the dataset profiles file")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	registry, err := config.NewRegistry(pc.path)
	if err != nil {
		return fmt.Errorf("failed to load dataset profiles: %w", err)
	}

	profiles, err := registry.GetProfiles(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintf(out, "No dataset profiles found in %s\n", pc.path)
		return nil
	}
	for _, profile := range profiles {
		fmt.Fprintf(out, "Name: `%s`, Type: `%s`, Path: `%s`\n", profile.Name, profile.Type, profile.Path)
	}
	return nil
}
