package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/shopping-atlas/pkg/runtime/app"
	"github.com/de-tools/shopping-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/shopping-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	configPath  string
	profile     string
	datasetPath string
	verbose     bool
	rootCmd     *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd(opts.LogOutput)
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(logOutput io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Explore shopping trends from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.WarnLevel
			if cli.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: logOutput}).
				Level(level).
				With().
				Timestamp().
				Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.configPath, "config", "c", "", "Path to the config file")
	flags.StringVar(&cli.profile, "profile", "", "Dataset profile to load")
	flags.StringVar(&cli.datasetPath, "dataset", "", "Dataset CSV path or s3://bucket/key location")
	flags.BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewRenderCmd(cli.load))
	cmd.AddCommand(commands.NewChartsCmd(cli.load))
	cmd.AddCommand(commands.NewExportCmd(cli.load))
	cmd.AddCommand(commands.NewProfilesCmd())

	return cmd
}

// load applies the dataset flags on top of the config file and opens the dashboard.
func (cli *CLI) load(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return nil, err
	}
	if cli.datasetPath != "" {
		cfg.Dataset.Path = cli.datasetPath
		cfg.Dataset.Profile = ""
	}
	if cli.profile != "" {
		cfg.Dataset.Profile = cli.profile
	}
	return app.New(ctx, *cfg)
}
