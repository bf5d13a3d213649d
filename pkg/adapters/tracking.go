package adapters

import (
	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/models/store"
)

func MapStoreTaskToDomain(r store.TaskRecord) domain.Task {
	t := domain.Task{
		ID:             r.ID,
		Title:          r.Title,
		Status:         mapTaskStatus(r.Status),
		EstimatedHours: r.EstimatedHours,
		DueDate:        r.DueDate,
	}
	if r.SprintID.Valid {
		sprintID := r.SprintID.Int64
		t.SprintID = &sprintID
	}
	if r.RealHours.Valid {
		t.RealHours = r.RealHours.Float64
	}
	return t
}

func mapTaskStatus(code int) domain.TaskStatus {
	switch code {
	case 0:
		return domain.TaskStatusTodo
	case 1:
		return domain.TaskStatusInProgress
	case 2:
		return domain.TaskStatusCompleted
	case 3:
		return domain.TaskStatusBlocked
	default:
		return domain.TaskStatusTodo
	}
}

func MapStoreSprintToDomain(r store.SprintRecord) domain.Sprint {
	return domain.Sprint{
		ID:        r.ID,
		Name:      r.Name,
		ProjectID: r.ProjectID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    mapSprintStatus(r.Status),
	}
}

func mapSprintStatus(code int) domain.SprintStatus {
	switch code {
	case 1:
		return domain.SprintStatusActive
	case 2:
		return domain.SprintStatusCompleted
	default:
		return domain.SprintStatusPlanning
	}
}

func MapStoreDeveloperToDomain(r store.DeveloperRecord) domain.Developer {
	return domain.Developer{
		ID:       r.ID,
		Username: r.Username,
		FullName: r.FullName.String,
		Role:     r.Role.String,
	}
}

func MapStoreAssignmentToDomain(r store.AssignmentRecord) domain.TaskAssignment {
	return domain.TaskAssignment{
		TaskID:      r.TaskID,
		DeveloperID: r.DeveloperID,
	}
}
