package performance

import (
	"context"

	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Scope restricts an aggregation pass to one project. A zero ProjectID
// keeps every sprint in the snapshot.
type Scope struct {
	ProjectID int64
}

type Option func(*Aggregator)

// WithStrictReferences makes dangling assignment references fail the pass
// instead of being dropped.
func WithStrictReferences() Option {
	return func(a *Aggregator) { a.strict = true }
}

// Aggregator joins assignments to tasks, sprints and developers and derives
// one PerformanceRecord per (sprint, developer) pair. It is a pure function
// of its inputs; the snapshot is never mutated.
type Aggregator struct {
	strict bool
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Aggregate(
	ctx context.Context,
	snap *domain.Snapshot,
	scope Scope,
) ([]domain.PerformanceRecord, error) {
	logger := zerolog.Ctx(ctx)

	tasksByID := make(map[int64]domain.Task, len(snap.Tasks))
	for _, t := range snap.Tasks {
		tasksByID[t.ID] = t
	}
	developerIDs := make(map[int64]struct{}, len(snap.Developers))
	for _, d := range snap.Developers {
		developerIDs[d.ID] = struct{}{}
	}

	valid, err := a.validateAssignments(snap.Assignments, tasksByID, developerIDs, logger)
	if err != nil {
		return nil, err
	}

	assigneeCount := make(map[int64]int, len(tasksByID))
	byDeveloper := make(map[int64][]int64, len(snap.Developers))
	for _, as := range valid {
		assigneeCount[as.TaskID]++
		byDeveloper[as.DeveloperID] = append(byDeveloper[as.DeveloperID], as.TaskID)
	}

	sprints := snap.Sprints
	if scope.ProjectID != 0 {
		sprints = make([]domain.Sprint, 0, len(snap.Sprints))
		for _, s := range snap.Sprints {
			if s.ProjectID == scope.ProjectID {
				sprints = append(sprints, s)
			}
		}
	}

	records := make([]domain.PerformanceRecord, 0, len(sprints)*len(snap.Developers))
	for _, sprint := range sprints {
		for _, dev := range snap.Developers {
			records = append(records, buildRecord(sprint, dev, byDeveloper[dev.ID], tasksByID, assigneeCount))
		}
	}
	return records, nil
}

func (a *Aggregator) validateAssignments(
	assignments []domain.TaskAssignment,
	tasksByID map[int64]domain.Task,
	developerIDs map[int64]struct{},
	logger *zerolog.Logger,
) ([]domain.TaskAssignment, error) {
	valid := make([]domain.TaskAssignment, 0, len(assignments))
	for _, as := range assignments {
		reason := ""
		if _, ok := tasksByID[as.TaskID]; !ok {
			reason = "task not found in snapshot"
		} else if _, ok := developerIDs[as.DeveloperID]; !ok {
			reason = "developer not found in snapshot"
		}
		if reason == "" {
			valid = append(valid, as)
			continue
		}
		if a.strict {
			return nil, &OrphanAssignmentError{
				TaskID:      as.TaskID,
				DeveloperID: as.DeveloperID,
				Reason:      reason,
			}
		}
		logger.Warn().
			Int64("task_id", as.TaskID).
			Int64("developer_id", as.DeveloperID).
			Str("reason", reason).
			Msg("dropping orphan assignment")
	}
	return valid, nil
}

func buildRecord(
	sprint domain.Sprint,
	dev domain.Developer,
	assignedTaskIDs []int64,
	tasksByID map[int64]domain.Task,
	assigneeCount map[int64]int,
) domain.PerformanceRecord {
	rec := domain.PerformanceRecord{
		SprintID:      sprint.ID,
		SprintName:    sprint.Name,
		DeveloperID:   dev.ID,
		DeveloperName: dev.DisplayName(),
	}

	var estimatedOfLogged float64
	seen := make(map[int64]struct{}, len(assignedTaskIDs))
	for _, taskID := range assignedTaskIDs {
		if _, dup := seen[taskID]; dup {
			continue
		}
		seen[taskID] = struct{}{}

		task := tasksByID[taskID]
		if task.SprintID == nil || *task.SprintID != sprint.ID {
			continue
		}

		rec.TasksAssigned++
		if task.Status == domain.TaskStatusCompleted {
			rec.TasksCompleted++
		}
		if task.HoursLogged() {
			count := assigneeCount[taskID]
			if count < 1 {
				count = 1
			}
			rec.HoursWorked += task.RealHours / float64(count)
			estimatedOfLogged += task.EstimatedHours
		}
	}

	if rec.HoursWorked > 0 && estimatedOfLogged > 0 {
		rec.Efficiency = estimatedOfLogged / rec.HoursWorked * 100
	}
	return rec
}
