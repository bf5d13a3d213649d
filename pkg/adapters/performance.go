package adapters

import (
	"github.com/dev-metrics/sprint-pulse/pkg/models/api"
	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
)

func MapPerformanceRecordDomainToApi(r domain.PerformanceRecord) api.PerformanceRecord {
	return api.PerformanceRecord{
		SprintID:             r.SprintID,
		SprintName:           r.SprintName,
		DeveloperID:          r.DeveloperID,
		DeveloperName:        r.DeveloperName,
		HoursWorked:          r.HoursWorked,
		TasksCompleted:       r.TasksCompleted,
		TasksAssigned:        r.TasksAssigned,
		Efficiency:           r.Efficiency,
		NormalizedEfficiency: r.NormalizedEfficiency,
	}
}

func MapPerformanceBatchDomainToApi(batch []domain.PerformanceRecord) []api.PerformanceRecord {
	res := make([]api.PerformanceRecord, 0, len(batch))
	for _, r := range batch {
		res = append(res, MapPerformanceRecordDomainToApi(r))
	}
	return res
}

func MapMetricsDomainToApi(m domain.Metrics) api.Metrics {
	return api.Metrics{
		TotalTasksAssigned:   m.TotalTasksAssigned,
		TotalTasksCompleted:  m.TotalTasksCompleted,
		CompletionRate:       m.CompletionRate,
		AverageHoursPerTask:  m.AverageHoursPerTask,
		ProductivityIndex:    m.ProductivityIndex,
		TotalEstimatedHours:  m.TotalEstimatedHours,
		TotalRealHours:       m.TotalRealHours,
		TotalHoursWorked:     m.TotalHoursWorked,
		TimeVariance:         m.TimeVariance,
		OnTimeDeliveryRate:   m.OnTimeDeliveryRate,
		ActiveDevelopers:     m.ActiveDevelopers,
		ActiveSprints:        m.ActiveSprints,
		SampleSize:           m.SampleSize,
		TasksWithHoursLogged: m.TasksWithHoursLogged,
		TimeOverruns:         m.TimeOverruns,
	}
}
