package terminal

import (
	"io"
	"os"

	"github.com/dev-metrics/sprint-pulse/pkg/runtime/terminal/commands"
	"github.com/dev-metrics/sprint-pulse/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// ServiceFactory builds a performance service for one command invocation.
// The returned closer releases the underlying database connection.
type ServiceFactory = commands.ServiceFactory

// CLI represents the command-line interface
type CLI struct {
	factory ServiceFactory
	output  io.Writer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory ServiceFactory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		factory: opts.Factory,
		output:  opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Developer performance analytics tool",
	}

	cmd.AddCommand(commands.NewExportCmd(cli.factory, cli.output))
	cmd.AddCommand(commands.NewRecordsCmd(cli.factory, export.NewReporter(cli.output)))

	return cmd
}
