package store

import (
	"database/sql"
	"time"
)

// Row-level records as scanned from the tracking database. Mapping to
// domain models happens in pkg/adapters.

type TaskRecord struct {
	ID             int64
	Title          string
	SprintID       sql.NullInt64
	Status         int
	EstimatedHours float64
	RealHours      sql.NullFloat64
	DueDate        time.Time
}

type SprintRecord struct {
	ID        int64
	Name      string
	ProjectID int64
	StartDate time.Time
	EndDate   time.Time
	Status    int
}

type DeveloperRecord struct {
	ID       int64
	Username string
	FullName sql.NullString
	Role     sql.NullString
}

type AssignmentRecord struct {
	TaskID      int64
	DeveloperID int64
}
