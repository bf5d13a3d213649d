package domain

import "time"

type SprintStatus int

const (
	SprintStatusPlanning SprintStatus = iota
	SprintStatusActive
	SprintStatusCompleted
)

func (s SprintStatus) String() string {
	switch s {
	case SprintStatusPlanning:
		return "planning"
	case SprintStatusActive:
		return "active"
	case SprintStatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Sprint belongs to exactly one project.
type Sprint struct {
	ID        int64
	Name      string
	ProjectID int64
	StartDate time.Time
	EndDate   time.Time
	Status    SprintStatus
}

type Project struct {
	ID   int64
	Name string
}
