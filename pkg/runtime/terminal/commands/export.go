package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dev-metrics/sprint-pulse/pkg/services/metrics"
	"github.com/dev-metrics/sprint-pulse/pkg/services/performance"
	"github.com/spf13/cobra"
)

// ServiceFactory builds a performance service for one command invocation.
type ServiceFactory func(ctx context.Context, dbURL, insightConfigPath string) (performance.Service, func() error, error)

type ExportCmd struct {
	dbURL       string
	insightPath string
	projectID   int64
	sprintID    int64
	developerID int64
	outDir      string
	factory     ServiceFactory
	output      io.Writer
}

func NewExportCmd(factory ServiceFactory, output io.Writer) *cobra.Command {
	ec := &ExportCmd{factory: factory, output: output}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a paginated performance report",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.dbURL, "db", "", "Tracking database connection string")
	cmd.Flags().StringVar(&ec.insightPath, "insight-config", "", "Path to the insight service config (optional)")
	cmd.Flags().Int64Var(&ec.projectID, "project", 0, "Project to report on")
	cmd.Flags().Int64Var(&ec.sprintID, "sprint", 0, "Restrict to one sprint")
	cmd.Flags().Int64Var(&ec.developerID, "developer", 0, "Restrict to one developer")
	cmd.Flags().StringVar(&ec.outDir, "out", ".", "Directory to write the report into, or '-' for stdout")

	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, closer, err := ec.factory(ctx, ec.dbURL, ec.insightPath)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() { _ = closer() }()

	artifact, err := svc.Export(ctx, ec.projectID, filterFromFlags(ec.sprintID, ec.developerID))
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	if ec.outDir == "-" {
		_, err = ec.output.Write(artifact.Content)
		return err
	}

	path := filepath.Join(ec.outDir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(ec.output, "Report written to %s (%d pages)\n", path, artifact.Pages)
	for _, w := range artifact.Warnings {
		fmt.Fprintf(ec.output, "warning: %s\n", w)
	}
	return nil
}

func filterFromFlags(sprintID, developerID int64) metrics.Filter {
	var f metrics.Filter
	if sprintID != 0 {
		f.SprintID = &sprintID
	}
	if developerID != 0 {
		f.DeveloperID = &developerID
	}
	return f
}
