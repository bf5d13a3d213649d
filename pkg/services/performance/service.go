package performance

import (
	"context"
	"fmt"

	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/services/insight"
	"github.com/dev-metrics/sprint-pulse/pkg/services/metrics"
	"github.com/dev-metrics/sprint-pulse/pkg/services/report"
	"github.com/dev-metrics/sprint-pulse/pkg/services/series"
	sqlstore "github.com/dev-metrics/sprint-pulse/pkg/store/sql"
)

// Service is the orchestration surface the handlers and the terminal
// runtime consume: snapshot loading, aggregation, metric derivation, series
// pivoting and report export for one project scope.
type Service interface {
	GetPerformance(ctx context.Context, projectID int64, f metrics.Filter) ([]domain.PerformanceRecord, error)
	GetMetrics(ctx context.Context, projectID int64, f metrics.Filter) (*domain.Metrics, error)
	GetTotalHoursSeries(ctx context.Context, projectID int64, f metrics.Filter) ([]series.Point, error)
	GetHoursMatrix(ctx context.Context, projectID int64, f metrics.Filter) (*series.Matrix, error)
	GetTasksMatrix(ctx context.Context, projectID int64, f metrics.Filter) (*series.Matrix, error)
	GetEfficiencySeries(ctx context.Context, projectID int64, f metrics.Filter) ([]series.EfficiencyPoint, error)
	Export(ctx context.Context, projectID int64, f metrics.Filter) (*report.Artifact, error)
}

type service struct {
	store      sqlstore.EntityStore
	aggregator *Aggregator
	exporter   *report.Exporter
}

func NewService(store sqlstore.EntityStore, analyzer insight.Analyzer) Service {
	return &service{
		store:      store,
		aggregator: NewAggregator(),
		exporter:   report.NewExporter(analyzer),
	}
}

// load runs one aggregation pass over a fresh snapshot and applies the
// record-level filter.
func (s *service) load(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) (*domain.Snapshot, []domain.PerformanceRecord, error) {
	snap, err := s.store.LoadSnapshot(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	batch, err := s.aggregator.Aggregate(ctx, snap, Scope{ProjectID: projectID})
	if err != nil {
		return nil, nil, err
	}
	return snap, metrics.FilterBatch(batch, f), nil
}

func (s *service) GetPerformance(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) ([]domain.PerformanceRecord, error) {
	_, filtered, err := s.load(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	return metrics.NormalizeEfficiency(filtered), nil
}

func (s *service) GetMetrics(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) (*domain.Metrics, error) {
	snap, filtered, err := s.load(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	m := metrics.Compute(filtered, snap.Tasks, snap.Assignments, f)
	return &m, nil
}

func (s *service) GetTotalHoursSeries(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) ([]series.Point, error) {
	snap, filtered, err := s.load(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	return series.TotalHoursPerSprint(filtered, scopedSprints(snap.Sprints, f)), nil
}

func (s *service) GetHoursMatrix(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) (*series.Matrix, error) {
	snap, filtered, err := s.load(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	m := series.HoursPerDeveloperPerSprint(filtered, scopedSprints(snap.Sprints, f))
	return &m, nil
}

func (s *service) GetTasksMatrix(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) (*series.Matrix, error) {
	snap, filtered, err := s.load(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	m := series.TasksPerDeveloperPerSprint(filtered, scopedSprints(snap.Sprints, f))
	return &m, nil
}

func (s *service) GetEfficiencySeries(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) ([]series.EfficiencyPoint, error) {
	_, filtered, err := s.load(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	return series.EfficiencyPerDeveloper(filtered), nil
}

func (s *service) Export(
	ctx context.Context,
	projectID int64,
	f metrics.Filter,
) (*report.Artifact, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	snap, filtered, err := s.load(ctx, projectID, f)
	if err != nil {
		return nil, err
	}

	data := report.ExportData{
		ProjectName:     project.Name,
		Records:         filtered,
		Tasks:           snap.Tasks,
		Assignments:     snap.Assignments,
		Sprints:         scopedSprints(snap.Sprints, f),
		Developers:      snap.Developers,
		Metrics:         metrics.Compute(filtered, snap.Tasks, snap.Assignments, f),
		SprintFilter:    sprintFilterName(snap.Sprints, f),
		DeveloperFilter: developerFilterName(snap.Developers, f),
	}
	return s.exporter.ExportPerformanceReport(ctx, data)
}

func scopedSprints(sprints []domain.Sprint, f metrics.Filter) []domain.Sprint {
	if f.SprintID == nil {
		return sprints
	}
	out := make([]domain.Sprint, 0, 1)
	for _, s := range sprints {
		if s.ID == *f.SprintID {
			out = append(out, s)
		}
	}
	return out
}

func sprintFilterName(sprints []domain.Sprint, f metrics.Filter) string {
	if f.SprintID == nil {
		return ""
	}
	for _, s := range sprints {
		if s.ID == *f.SprintID {
			return s.Name
		}
	}
	return fmt.Sprintf("sprint-%d", *f.SprintID)
}

func developerFilterName(developers []domain.Developer, f metrics.Filter) string {
	if f.DeveloperID == nil {
		return ""
	}
	for _, d := range developers {
		if d.ID == *f.DeveloperID {
			return d.Username
		}
	}
	return fmt.Sprintf("developer-%d", *f.DeveloperID)
}
