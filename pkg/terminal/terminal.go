package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-bands/pkg/bands"
	"github.com/benjaminschreck/go-bands/pkg/terminal/commands"
)

// CLI represents the command-line interface
type CLI struct {
	rootCmd    *cobra.Command
	configPath string
	logLevel   string
}

// Options contain configuration for the CLI
type Options struct {
	Output  io.Writer
	Version string
	// OpenDB connects to SQL sources; defaults to sqlx.Open
	OpenDB commands.OpenDBFunc
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.OpenDB == nil {
		opts.OpenDB = sqlx.Open
	}

	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd(opts)
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

// Execute runs the command named by os.Args
func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "bands",
		Short:             "Banded report definitions",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.configure,
	}

	cmd.PersistentFlags().StringVar(&cli.configPath, "config", "", "Path to a configuration file (YAML, TOML or JSON)")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")

	cmd.AddCommand(commands.NewRenderCmd(opts.OpenDB))
	cmd.AddCommand(commands.NewValidateCmd())
	cmd.AddCommand(commands.NewVersionCmd(opts.Version))

	return cmd
}

// configure applies --config and --log-level to the global configuration
func (cli *CLI) configure(cmd *cobra.Command, args []string) error {
	if cli.configPath == "" && cli.logLevel == "" {
		return nil
	}

	config := bands.GetGlobalConfig()
	if cli.configPath != "" {
		loaded, err := bands.LoadConfig(cli.configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	if cli.logLevel != "" {
		config.LogLevel = strings.ToLower(cli.logLevel)
		if err := config.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}

	bands.SetGlobalConfig(config)
	bands.GetLogger().Debug().Str("config", cli.configPath).Str("log_level", config.LogLevel).Msg("configuration loaded")
	return nil
}
