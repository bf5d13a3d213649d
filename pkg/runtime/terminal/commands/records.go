package commands

import (
	"fmt"

	"github.com/dev-metrics/sprint-pulse/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type RecordsCmd struct {
	dbURL       string
	projectID   int64
	sprintID    int64
	developerID int64
	factory     ServiceFactory
	reporter    *export.Reporter
}

func NewRecordsCmd(factory ServiceFactory, reporter *export.Reporter) *cobra.Command {
	rc := &RecordsCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print the aggregated performance records for a project",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.dbURL, "db", "", "Tracking database connection string")
	cmd.Flags().Int64Var(&rc.projectID, "project", 0, "Project to aggregate")
	cmd.Flags().Int64Var(&rc.sprintID, "sprint", 0, "Restrict to one sprint")
	cmd.Flags().Int64Var(&rc.developerID, "developer", 0, "Restrict to one developer")

	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func (rc *RecordsCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, closer, err := rc.factory(ctx, rc.dbURL, "")
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() { _ = closer() }()

	batch, err := svc.GetPerformance(ctx, rc.projectID, filterFromFlags(rc.sprintID, rc.developerID))
	if err != nil {
		return fmt.Errorf("failed to aggregate performance records: %w", err)
	}

	return rc.reporter.Handle(batch)
}
