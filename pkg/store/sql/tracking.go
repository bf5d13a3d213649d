package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dev-metrics/sprint-pulse/pkg/adapters"
	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/models/store"
)

type TaskFilter struct {
	ProjectID int64
	SprintID  *int64
	Status    *int
}

type SprintFilter struct {
	ProjectID int64
}

type AssignmentFilter struct {
	ProjectID int64
}

// EntityStore supplies read-only snapshots of the tracking entities. It has
// no side effects on the backing database.
type EntityStore interface {
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	ListSprints(ctx context.Context, filter SprintFilter) ([]domain.Sprint, error)
	ListDevelopers(ctx context.Context) ([]domain.Developer, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]domain.TaskAssignment, error)
	LoadSnapshot(ctx context.Context, projectID int64) (*domain.Snapshot, error)
}

type entityStore struct {
	db *sql.DB
}

func NewEntityStore(db *sql.DB) EntityStore {
	return &entityStore{db: db}
}

func (s *entityStore) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM projects WHERE id = $1`, id)

	var p domain.Project
	if err := row.Scan(&p.ID, &p.Name); err != nil {
		return nil, fmt.Errorf("failed to load project %d: %w", id, err)
	}
	return &p, nil
}

func (s *entityStore) ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	query := `
		SELECT t.id, t.title, t.sprint_id, t.status, t.estimated_hours, t.real_hours, t.due_date
		FROM tasks t
		JOIN sprints s ON s.id = t.sprint_id
		WHERE s.project_id = $1`
	args := []any{filter.ProjectID}

	if filter.SprintID != nil {
		args = append(args, *filter.SprintID)
		query += fmt.Sprintf(" AND t.sprint_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	query += " ORDER BY t.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var rec store.TaskRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&rec.SprintID,
			&rec.Status,
			&rec.EstimatedHours,
			&rec.RealHours,
			&rec.DueDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, adapters.MapStoreTaskToDomain(rec))
	}
	return tasks, rows.Err()
}

func (s *entityStore) ListSprints(ctx context.Context, filter SprintFilter) ([]domain.Sprint, error) {
	query := `
		SELECT id, name, project_id, start_date, end_date, status
		FROM sprints
		WHERE project_id = $1
		ORDER BY start_date`

	rows, err := s.db.QueryContext(ctx, query, filter.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sprints: %w", err)
	}
	defer rows.Close()

	var sprints []domain.Sprint
	for rows.Next() {
		var rec store.SprintRecord
		err := rows.Scan(&rec.ID, &rec.Name, &rec.ProjectID, &rec.StartDate, &rec.EndDate, &rec.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sprint row: %w", err)
		}
		sprints = append(sprints, adapters.MapStoreSprintToDomain(rec))
	}
	return sprints, rows.Err()
}

func (s *entityStore) ListDevelopers(ctx context.Context) ([]domain.Developer, error) {
	query := `
		SELECT id, username, full_name, role
		FROM users
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query developers: %w", err)
	}
	defer rows.Close()

	var developers []domain.Developer
	for rows.Next() {
		var rec store.DeveloperRecord
		err := rows.Scan(&rec.ID, &rec.Username, &rec.FullName, &rec.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to scan developer row: %w", err)
		}
		developers = append(developers, adapters.MapStoreDeveloperToDomain(rec))
	}
	return developers, rows.Err()
}

func (s *entityStore) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]domain.TaskAssignment, error) {
	query := `
		SELECT a.task_id, a.user_id
		FROM task_assignees a
		JOIN tasks t ON t.id = a.task_id
		JOIN sprints s ON s.id = t.sprint_id
		WHERE s.project_id = $1
		ORDER BY a.task_id, a.user_id`

	rows, err := s.db.QueryContext(ctx, query, filter.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.TaskAssignment
	for rows.Next() {
		var rec store.AssignmentRecord
		err := rows.Scan(&rec.TaskID, &rec.DeveloperID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		assignments = append(assignments, adapters.MapStoreAssignmentToDomain(rec))
	}
	return assignments, rows.Err()
}

// LoadSnapshot reads the four collections one after another. The caller
// treats the result as immutable for the whole aggregation pass.
func (s *entityStore) LoadSnapshot(ctx context.Context, projectID int64) (*domain.Snapshot, error) {
	tasks, err := s.ListTasks(ctx, TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	sprints, err := s.ListSprints(ctx, SprintFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	developers, err := s.ListDevelopers(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.ListAssignments(ctx, AssignmentFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{
		Tasks:       tasks,
		Sprints:     sprints,
		Developers:  developers,
		Assignments: assignments,
	}, nil
}
