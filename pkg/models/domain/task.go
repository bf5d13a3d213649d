package domain

import "time"

type TaskStatus int

const (
	TaskStatusTodo TaskStatus = iota
	TaskStatusInProgress
	TaskStatusCompleted
	TaskStatusBlocked
)

func (s TaskStatus) String() string {
	switch s {
	case TaskStatusTodo:
		return "todo"
	case TaskStatusInProgress:
		return "in_progress"
	case TaskStatusCompleted:
		return "completed"
	case TaskStatusBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Task is an immutable snapshot of a tracked task. SprintID is nil for
// backlog tasks that were never scheduled into a sprint.
type Task struct {
	ID             int64
	Title          string
	SprintID       *int64
	Status         TaskStatus
	EstimatedHours float64
	RealHours      float64 // hours actually logged
	DueDate        time.Time
}

// HoursLogged reports whether any real work was recorded against the task.
// This is deliberately distinct from completion: a task can have partial
// hours logged without being done.
func (t Task) HoursLogged() bool {
	return t.RealHours > 0
}

// TaskAssignment links one developer to one task. A task may carry any
// number of assignments, including zero.
type TaskAssignment struct {
	TaskID      int64
	DeveloperID int64
}
