// Package series pivots performance batches into chart-ready shapes.
// Ordering is explicit everywhere: sprints keep the order the entity store
// supplied, developers keep the order of the active-developer list, so
// identical inputs always produce identical series.
package series

import (
	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/services/metrics"
)

type Point struct {
	Sprint string
	Value  float64
}

type DeveloperKey struct {
	ID   int64
	Name string
}

type MatrixRow struct {
	Sprint string
	Values []float64
}

// Matrix is one row per sprint, one column per active developer. Values
// are parallel to Developers; absent (sprint, developer) pairs read 0.
type Matrix struct {
	Developers []DeveloperKey
	Rows       []MatrixRow
}

type EfficiencyPoint struct {
	Developer  DeveloperKey
	Normalized float64
	Original   float64
}

// TotalHoursPerSprint sums hours worked by active developers for each
// sprint, one point per sprint in supplied order.
func TotalHoursPerSprint(batch []domain.PerformanceRecord, sprints []domain.Sprint) []Point {
	active := metrics.FilterActive(batch)
	points := make([]Point, 0, len(sprints))
	for _, sprint := range sprints {
		var total float64
		for _, r := range active {
			if r.SprintID == sprint.ID {
				total += r.HoursWorked
			}
		}
		points = append(points, Point{Sprint: sprint.Name, Value: total})
	}
	return points
}

// HoursPerDeveloperPerSprint pivots hours worked into a sprint-by-developer
// matrix.
func HoursPerDeveloperPerSprint(batch []domain.PerformanceRecord, sprints []domain.Sprint) Matrix {
	return pivot(batch, sprints, func(r domain.PerformanceRecord) float64 {
		return r.HoursWorked
	})
}

// TasksPerDeveloperPerSprint pivots completed-task counts into a
// sprint-by-developer matrix.
func TasksPerDeveloperPerSprint(batch []domain.PerformanceRecord, sprints []domain.Sprint) Matrix {
	return pivot(batch, sprints, func(r domain.PerformanceRecord) float64 {
		return float64(r.TasksCompleted)
	})
}

func pivot(
	batch []domain.PerformanceRecord,
	sprints []domain.Sprint,
	value func(domain.PerformanceRecord) float64,
) Matrix {
	active := metrics.FilterActive(batch)
	developers := developerKeys(active)

	m := Matrix{Developers: developers, Rows: make([]MatrixRow, 0, len(sprints))}
	for _, sprint := range sprints {
		row := MatrixRow{Sprint: sprint.Name, Values: make([]float64, len(developers))}
		for i, dev := range developers {
			for _, r := range active {
				if r.SprintID == sprint.ID && r.DeveloperID == dev.ID {
					row.Values[i] = value(r)
					break
				}
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// EfficiencyPerDeveloper yields one point per active developer with the
// sprint-averaged efficiency, both normalized against the best performer
// and in its original scale.
func EfficiencyPerDeveloper(batch []domain.PerformanceRecord) []EfficiencyPoint {
	active := metrics.FilterActive(batch)
	normalized := metrics.NormalizeEfficiency(active)
	developers := developerKeys(active)

	points := make([]EfficiencyPoint, 0, len(developers))
	for _, dev := range developers {
		p := EfficiencyPoint{
			Developer: dev,
			Original:  metrics.DeveloperAverageEfficiency(active, dev.ID),
		}
		for _, r := range normalized {
			if r.DeveloperID == dev.ID {
				p.Normalized = r.NormalizedEfficiency
				break
			}
		}
		points = append(points, p)
	}
	return points
}

func developerKeys(batch []domain.PerformanceRecord) []DeveloperKey {
	names := make(map[int64]string, len(batch))
	for _, r := range batch {
		if _, ok := names[r.DeveloperID]; !ok {
			names[r.DeveloperID] = r.DeveloperName
		}
	}
	ids := metrics.ActiveDevelopers(batch)
	keys := make([]DeveloperKey, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, DeveloperKey{ID: id, Name: names[id]})
	}
	return keys
}
