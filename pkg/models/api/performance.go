package api

// Wire models for the performance HTTP surface.

type PerformanceRecord struct {
	SprintID             int64   `json:"sprint_id"`
	SprintName           string  `json:"sprint_name"`
	DeveloperID          int64   `json:"developer_id"`
	DeveloperName        string  `json:"developer_name"`
	HoursWorked          float64 `json:"hours_worked"`
	TasksCompleted       int     `json:"tasks_completed"`
	TasksAssigned        int     `json:"tasks_assigned"`
	Efficiency           float64 `json:"efficiency"`
	NormalizedEfficiency float64 `json:"normalized_efficiency"`
}

type Metrics struct {
	TotalTasksAssigned   int     `json:"total_tasks_assigned"`
	TotalTasksCompleted  int     `json:"total_tasks_completed"`
	CompletionRate       float64 `json:"completion_rate"`
	AverageHoursPerTask  float64 `json:"average_hours_per_task"`
	ProductivityIndex    float64 `json:"productivity_index"`
	TotalEstimatedHours  float64 `json:"total_estimated_hours"`
	TotalRealHours       float64 `json:"total_real_hours"`
	TotalHoursWorked     float64 `json:"total_hours_worked"`
	TimeVariance         float64 `json:"time_variance"`
	OnTimeDeliveryRate   float64 `json:"on_time_delivery_rate"`
	ActiveDevelopers     int     `json:"active_developers"`
	ActiveSprints        int     `json:"active_sprints"`
	SampleSize           int     `json:"sample_size"`
	TasksWithHoursLogged int     `json:"tasks_with_hours_logged"`
	TimeOverruns         int     `json:"time_overruns"`
}

type SeriesPoint struct {
	Sprint string  `json:"sprint"`
	Value  float64 `json:"value"`
}

type MatrixRow struct {
	Sprint string    `json:"sprint"`
	Values []float64 `json:"values"`
}

type DeveloperMatrix struct {
	Developers []string    `json:"developers"`
	Rows       []MatrixRow `json:"rows"`
}

type EfficiencyPoint struct {
	Developer  string  `json:"developer"`
	Normalized float64 `json:"normalized"`
	Original   float64 `json:"original"`
}

type Error struct {
	Message string `json:"message"`
}
