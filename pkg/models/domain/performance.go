package domain

// PerformanceRecord is the derived fact about one developer's work within
// one sprint. Records are recomputed wholesale on every aggregation pass;
// a batch is never mutated in place.
type PerformanceRecord struct {
	SprintID      int64
	SprintName    string
	DeveloperID   int64
	DeveloperName string

	// HoursWorked is the developer's share of logged hours across assigned
	// tasks in the sprint. Multi-assignee tasks split real hours evenly.
	HoursWorked float64

	// TasksCompleted counts distinct tasks with status completed, not
	// assignments.
	TasksCompleted int
	TasksAssigned  int

	// Efficiency is the raw ratio estimated/worked*100 over hour-logged
	// tasks. NormalizedEfficiency is relative to the best active developer
	// in the current scope and is zero until normalization runs.
	Efficiency           float64
	NormalizedEfficiency float64
}

// Active reports whether the record shows any activity at all.
func (r PerformanceRecord) Active() bool {
	return r.TasksAssigned > 0 || r.HoursWorked > 0 || r.TasksCompleted > 0
}

// Metrics are scope-wide KPIs derived from a performance batch plus the raw
// task collection. Rates are percentages; a zero rate with SampleSize zero
// means "no data", not a genuine zero score.
type Metrics struct {
	TotalTasksAssigned  int
	TotalTasksCompleted int
	CompletionRate      float64
	AverageHoursPerTask float64
	ProductivityIndex   float64
	TotalEstimatedHours float64
	TotalRealHours      float64
	TotalHoursWorked    float64
	TimeVariance        float64
	OnTimeDeliveryRate  float64
	ActiveDevelopers    int
	ActiveSprints       int

	// SampleSize is the distinct-task population behind the rates above.
	SampleSize int

	// TasksWithHoursLogged and TimeOverruns track hour-logging separately
	// from completion; the two criteria are never conflated.
	TasksWithHoursLogged int
	TimeOverruns         int
}
