package adapters

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/models/store"
)

func TestMapStoreTaskToDomain(t *testing.T) {
	due := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	rec := store.TaskRecord{
		ID:             1,
		Title:          "Build parser",
		SprintID:       sql.NullInt64{Int64: 10, Valid: true},
		Status:         2,
		EstimatedHours: 10,
		RealHours:      sql.NullFloat64{Float64: 8, Valid: true},
		DueDate:        due,
	}

	task := MapStoreTaskToDomain(rec)

	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	assert.NotNil(t, task.SprintID)
	assert.Equal(t, int64(10), *task.SprintID)
	assert.Equal(t, 8.0, task.RealHours)
	assert.True(t, task.HoursLogged())
}

func TestMapStoreTaskToDomain_Nulls(t *testing.T) {
	task := MapStoreTaskToDomain(store.TaskRecord{ID: 2, Title: "Backlog item", Status: 99})

	assert.Nil(t, task.SprintID)
	assert.Zero(t, task.RealHours)
	assert.False(t, task.HoursLogged())
	// Unknown status codes fall back to todo.
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
}

func TestMapStoreDeveloperToDomain(t *testing.T) {
	dev := MapStoreDeveloperToDomain(store.DeveloperRecord{
		ID:       100,
		Username: "alice",
		FullName: sql.NullString{String: "Alice Doe", Valid: true},
	})
	assert.Equal(t, "Alice Doe", dev.DisplayName())

	dev = MapStoreDeveloperToDomain(store.DeveloperRecord{ID: 101, Username: "bob"})
	assert.Equal(t, "bob", dev.DisplayName())
}

func TestMapStoreSprintToDomain(t *testing.T) {
	s := MapStoreSprintToDomain(store.SprintRecord{ID: 10, Name: "Sprint 1", ProjectID: 1, Status: 1})
	assert.Equal(t, domain.SprintStatusActive, s.Status)

	s = MapStoreSprintToDomain(store.SprintRecord{ID: 11, Status: 7})
	assert.Equal(t, domain.SprintStatusPlanning, s.Status)
}
