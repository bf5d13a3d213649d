package metrics

import (
	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
)

// Filter narrows a performance batch to one sprint and/or one developer.
// Nil fields keep everything.
type Filter struct {
	SprintID    *int64
	DeveloperID *int64
}

func (f Filter) match(r domain.PerformanceRecord) bool {
	if f.SprintID != nil && r.SprintID != *f.SprintID {
		return false
	}
	if f.DeveloperID != nil && r.DeveloperID != *f.DeveloperID {
		return false
	}
	return true
}

// FilterBatch returns the records matching the filter, in batch order.
func FilterBatch(batch []domain.PerformanceRecord, f Filter) []domain.PerformanceRecord {
	out := make([]domain.PerformanceRecord, 0, len(batch))
	for _, r := range batch {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// ActiveDevelopers returns the distinct ids of developers with any
// assignment, hours or completion activity across the batch, in first-seen
// batch order.
func ActiveDevelopers(batch []domain.PerformanceRecord) []int64 {
	activity := make(map[int64]bool, len(batch))
	order := make([]int64, 0, len(batch))
	for _, r := range batch {
		if _, seen := activity[r.DeveloperID]; !seen {
			order = append(order, r.DeveloperID)
		}
		activity[r.DeveloperID] = activity[r.DeveloperID] || r.Active()
	}
	ids := make([]int64, 0, len(order))
	for _, id := range order {
		if activity[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// FilterActive keeps the records of active developers. Zero records of a
// developer who is active elsewhere in the scope survive; fully inactive
// developers are excluded.
func FilterActive(batch []domain.PerformanceRecord) []domain.PerformanceRecord {
	active := make(map[int64]struct{})
	for _, id := range ActiveDevelopers(batch) {
		active[id] = struct{}{}
	}
	out := make([]domain.PerformanceRecord, 0, len(batch))
	for _, r := range batch {
		if _, ok := active[r.DeveloperID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeEfficiency pins the most efficient developer of the batch at
// 100% and scales everyone else relative to them. The scale is population
// dependent: it must be recomputed whenever the filtered batch changes and
// never cached across scopes. Raw efficiencies are preserved.
func NormalizeEfficiency(batch []domain.PerformanceRecord) []domain.PerformanceRecord {
	type devStats struct {
		sum   float64
		count int
	}
	stats := make(map[int64]*devStats, len(batch))
	for _, r := range batch {
		if r.Efficiency <= 0 {
			continue
		}
		s, ok := stats[r.DeveloperID]
		if !ok {
			s = &devStats{}
			stats[r.DeveloperID] = s
		}
		s.sum += r.Efficiency
		s.count++
	}

	var maxAvg float64
	for _, s := range stats {
		if avg := s.sum / float64(s.count); avg > maxAvg {
			maxAvg = avg
		}
	}

	out := make([]domain.PerformanceRecord, len(batch))
	copy(out, batch)
	if maxAvg <= 0 {
		return out
	}
	for i := range out {
		if s, ok := stats[out[i].DeveloperID]; ok {
			avg := s.sum / float64(s.count)
			out[i].NormalizedEfficiency = avg / maxAvg * 100
		}
	}
	return out
}

// DeveloperAverageEfficiency returns the average of a developer's positive
// raw efficiencies across the batch, 0 when none exist.
func DeveloperAverageEfficiency(batch []domain.PerformanceRecord, developerID int64) float64 {
	var sum float64
	var count int
	for _, r := range batch {
		if r.DeveloperID == developerID && r.Efficiency > 0 {
			sum += r.Efficiency
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Compute derives scope-wide metrics from the performance batch plus the
// raw task collection. Task totals are deduplicated on task id, never
// summed across records: a task completed by two co-assignees counts once.
func Compute(
	batch []domain.PerformanceRecord,
	tasks []domain.Task,
	assignments []domain.TaskAssignment,
	f Filter,
) domain.Metrics {
	filtered := FilterBatch(batch, f)
	active := FilterActive(filtered)

	sprintIDs := make(map[int64]struct{})
	for _, r := range filtered {
		sprintIDs[r.SprintID] = struct{}{}
	}

	var developerTasks map[int64]struct{}
	if f.DeveloperID != nil {
		developerTasks = make(map[int64]struct{})
		for _, as := range assignments {
			if as.DeveloperID == *f.DeveloperID {
				developerTasks[as.TaskID] = struct{}{}
			}
		}
	}

	var m domain.Metrics
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if t.SprintID == nil {
			continue
		}
		if _, ok := sprintIDs[*t.SprintID]; !ok {
			continue
		}
		if developerTasks != nil {
			if _, ok := developerTasks[t.ID]; !ok {
				continue
			}
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}

		m.TotalTasksAssigned++
		if t.Status == domain.TaskStatusCompleted {
			m.TotalTasksCompleted++
		}
		m.TotalEstimatedHours += t.EstimatedHours
		m.TotalRealHours += t.RealHours
		if t.HoursLogged() {
			m.TasksWithHoursLogged++
			if t.EstimatedHours > 0 && t.RealHours > t.EstimatedHours {
				m.TimeOverruns++
			}
		}
	}

	m.SampleSize = m.TotalTasksAssigned
	if m.TotalTasksAssigned > 0 {
		m.CompletionRate = clampRate(float64(m.TotalTasksCompleted) / float64(m.TotalTasksAssigned) * 100)
	}
	if m.TotalTasksCompleted > 0 {
		m.AverageHoursPerTask = m.TotalRealHours / float64(m.TotalTasksCompleted)
	}
	if m.TotalRealHours > 0 {
		m.ProductivityIndex = m.TotalEstimatedHours / m.TotalRealHours * 100
	}
	if m.TotalEstimatedHours > 0 {
		m.TimeVariance = (m.TotalRealHours - m.TotalEstimatedHours) / m.TotalEstimatedHours * 100
	}
	// No due-date comparison is made here; on-time delivery is defined as
	// the completion rate.
	m.OnTimeDeliveryRate = m.CompletionRate

	activeSprints := make(map[int64]struct{})
	for _, r := range active {
		m.TotalHoursWorked += r.HoursWorked
		if r.Active() {
			activeSprints[r.SprintID] = struct{}{}
		}
	}
	m.ActiveDevelopers = len(ActiveDevelopers(filtered))
	m.ActiveSprints = len(activeSprints)

	return m
}

func clampRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
