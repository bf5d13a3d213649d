package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
)

func analysisFixture() Request {
	return Request{
		PerformanceData: []domain.PerformanceRecord{
			{SprintID: 10, SprintName: "Sprint 1", DeveloperID: 100, DeveloperName: "alice",
				HoursWorked: 4, TasksCompleted: 1, TasksAssigned: 1, Efficiency: 120},
			{SprintID: 10, SprintName: "Sprint 1", DeveloperID: 101, DeveloperName: "bob",
				HoursWorked: 8, TasksCompleted: 1, TasksAssigned: 2, Efficiency: 60},
			{SprintID: 10, SprintName: "Sprint 1", DeveloperID: 102, DeveloperName: "carol"},
		},
		Sprints: []domain.Sprint{
			{ID: 10, Name: "Sprint 1",
				StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		},
		Developers: []domain.Developer{
			{ID: 100, Username: "alice"},
			{ID: 101, Username: "bob"},
			{ID: 102, Username: "carol"},
		},
		Metrics: domain.Metrics{
			TotalTasksAssigned:  3,
			TotalTasksCompleted: 2,
			CompletionRate:      66.7,
			TotalHoursWorked:    12,
			ActiveDevelopers:    2,
			ActiveSprints:       1,
		},
	}
}

func TestAnalyzePerformance_Success(t *testing.T) {
	var captured analysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(analysisResponse{
			Success: true,
			Summary: "A healthy sprint.",
			Insights: []wireInsight{
				{Category: "efficiency", Severity: "high", Title: "Wide efficiency spread",
					Description: "desc", Recommendation: "pair up"},
				{Category: "nonsense", Severity: "critical", Title: "Unknown labels"},
			},
		})
	}))
	defer srv.Close()

	g := NewGateway(Config{Endpoint: srv.URL, Token: "secret"}, srv.Client())
	result := g.AnalyzePerformance(context.Background(), analysisFixture())

	require.True(t, result.Success)
	assert.Equal(t, "A healthy sprint.", result.Summary)
	require.Len(t, result.Insights, 2)
	assert.Equal(t, domain.InsightCategoryEfficiency, result.Insights[0].Category)
	assert.Equal(t, domain.InsightSeverityHigh, result.Insights[0].Severity)

	// Unknown labels degrade to the defaults instead of failing the call.
	assert.Equal(t, domain.InsightCategoryGeneral, result.Insights[1].Category)
	assert.Equal(t, domain.InsightSeverityLow, result.Insights[1].Severity)
}

func TestAnalyzePerformance_SendsOnlyActiveDevelopersNormalized(t *testing.T) {
	var captured analysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(analysisResponse{Success: true, Summary: "ok"})
	}))
	defer srv.Close()

	g := NewGateway(Config{Endpoint: srv.URL}, srv.Client())
	result := g.AnalyzePerformance(context.Background(), analysisFixture())
	require.True(t, result.Success)

	// Carol is inactive and must not appear anywhere in the payload.
	require.Len(t, captured.PerformanceData, 2)
	require.Len(t, captured.Developers, 2)
	for _, d := range captured.Developers {
		assert.NotEqual(t, int64(102), d.ID)
	}

	// The efficiency on the wire is normalized; the raw value rides along.
	assert.InDelta(t, 100, captured.PerformanceData[0].Efficiency, 1e-9)
	assert.InDelta(t, 120, captured.PerformanceData[0].OriginalEfficiency, 1e-9)
	assert.InDelta(t, 50, captured.PerformanceData[1].Efficiency, 1e-9)

	assert.NotEmpty(t, captured.RequestID)
	assert.Equal(t, "2025-03-01", captured.Sprints[0].StartDate)
}

func TestAnalyzePerformance_NonOKStatusDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGateway(Config{Endpoint: srv.URL}, srv.Client())
	result := g.AnalyzePerformance(context.Background(), analysisFixture())

	assert.False(t, result.Success)
	assert.Empty(t, result.Insights)
	assert.Contains(t, result.Summary, "Automated analysis is unavailable")
	assert.Contains(t, result.Err, "502")
}

func TestAnalyzePerformance_MalformedResponseDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	g := NewGateway(Config{Endpoint: srv.URL}, srv.Client())
	result := g.AnalyzePerformance(context.Background(), analysisFixture())

	assert.False(t, result.Success)
	assert.Contains(t, result.Summary, "Automated analysis is unavailable")
}

func TestAnalyzePerformance_ReportedFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(analysisResponse{Success: false, Error: "quota exceeded"})
	}))
	defer srv.Close()

	g := NewGateway(Config{Endpoint: srv.URL}, srv.Client())
	result := g.AnalyzePerformance(context.Background(), analysisFixture())

	assert.False(t, result.Success)
	assert.Equal(t, "quota exceeded", result.Err)
}

func TestAnalyzePerformance_TimeoutDegrades(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	g := NewGateway(Config{Endpoint: srv.URL, Timeout: 20 * time.Millisecond}, srv.Client())
	result := g.AnalyzePerformance(context.Background(), analysisFixture())

	assert.False(t, result.Success)
	assert.Contains(t, result.Summary, "Automated analysis is unavailable")
	assert.NotEmpty(t, result.Err)
}

func TestFallbackSummary(t *testing.T) {
	m := domain.Metrics{
		ActiveDevelopers:    2,
		ActiveSprints:       3,
		TotalTasksAssigned:  10,
		TotalTasksCompleted: 7,
		CompletionRate:      70,
		TotalHoursWorked:    52.5,
	}

	s := FallbackSummary(m)
	assert.Contains(t, s, "2 active developers across 3 sprints")
	assert.Contains(t, s, "7 of 10 tasks completed (70.0%)")
	assert.Contains(t, s, "52.5 hours worked")
}
