package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-metrics/sprint-pulse/pkg/models/api"
	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/services/metrics"
	"github.com/dev-metrics/sprint-pulse/pkg/services/report"
	"github.com/dev-metrics/sprint-pulse/pkg/services/series"
)

type mockPerformanceService struct {
	mock.Mock
}

func (m *mockPerformanceService) GetPerformance(ctx context.Context, projectID int64, f metrics.Filter) ([]domain.PerformanceRecord, error) {
	args := m.Called(ctx, projectID, f)
	return args.Get(0).([]domain.PerformanceRecord), args.Error(1)
}

func (m *mockPerformanceService) GetMetrics(ctx context.Context, projectID int64, f metrics.Filter) (*domain.Metrics, error) {
	args := m.Called(ctx, projectID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Metrics), args.Error(1)
}

func (m *mockPerformanceService) GetTotalHoursSeries(ctx context.Context, projectID int64, f metrics.Filter) ([]series.Point, error) {
	args := m.Called(ctx, projectID, f)
	return args.Get(0).([]series.Point), args.Error(1)
}

func (m *mockPerformanceService) GetHoursMatrix(ctx context.Context, projectID int64, f metrics.Filter) (*series.Matrix, error) {
	args := m.Called(ctx, projectID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*series.Matrix), args.Error(1)
}

func (m *mockPerformanceService) GetTasksMatrix(ctx context.Context, projectID int64, f metrics.Filter) (*series.Matrix, error) {
	args := m.Called(ctx, projectID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*series.Matrix), args.Error(1)
}

func (m *mockPerformanceService) GetEfficiencySeries(ctx context.Context, projectID int64, f metrics.Filter) ([]series.EfficiencyPoint, error) {
	args := m.Called(ctx, projectID, f)
	return args.Get(0).([]series.EfficiencyPoint), args.Error(1)
}

func (m *mockPerformanceService) Export(ctx context.Context, projectID int64, f metrics.Filter) (*report.Artifact, error) {
	args := m.Called(ctx, projectID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Artifact), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockSvc := new(mockPerformanceService)

	webAPI := NewWebAPI(logger, Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Performance: mockSvc,
		},
	})
	testServer := httptest.NewServer(webAPI.router)
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:   "GetPerformance",
			method: http.MethodGet,
			path:   "/api/v1/projects/1/performance",
			setupMocks: func() {
				mockSvc.On("GetPerformance", mock.Anything, int64(1), metrics.Filter{}).
					Return([]domain.PerformanceRecord{{
						SprintID:             10,
						SprintName:           "Sprint 1",
						DeveloperID:          100,
						DeveloperName:        "alice",
						HoursWorked:          4,
						TasksCompleted:       1,
						TasksAssigned:        2,
						Efficiency:           120,
						NormalizedEfficiency: 100,
					}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: []api.PerformanceRecord{{
				SprintID:             10,
				SprintName:           "Sprint 1",
				DeveloperID:          100,
				DeveloperName:        "alice",
				HoursWorked:          4,
				TasksCompleted:       1,
				TasksAssigned:        2,
				Efficiency:           120,
				NormalizedEfficiency: 100,
			}},
			parseResponse: unmarshalResponse[[]api.PerformanceRecord](),
		},
		{
			name:   "GetMetrics",
			method: http.MethodGet,
			path:   "/api/v1/projects/1/performance/metrics",
			setupMocks: func() {
				mockSvc.On("GetMetrics", mock.Anything, int64(1), metrics.Filter{}).
					Return(&domain.Metrics{
						TotalTasksAssigned:  3,
						TotalTasksCompleted: 2,
						CompletionRate:      66.7,
						OnTimeDeliveryRate:  66.7,
						ActiveDevelopers:    2,
						ActiveSprints:       1,
						SampleSize:          3,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.Metrics{
				TotalTasksAssigned:  3,
				TotalTasksCompleted: 2,
				CompletionRate:      66.7,
				OnTimeDeliveryRate:  66.7,
				ActiveDevelopers:    2,
				ActiveSprints:       1,
				SampleSize:          3,
			},
			parseResponse: unmarshalResponse[api.Metrics](),
		},
		{
			name:   "GetSeries_TotalHours",
			method: http.MethodGet,
			path:   "/api/v1/projects/1/performance/series/total-hours",
			setupMocks: func() {
				mockSvc.On("GetTotalHoursSeries", mock.Anything, int64(1), metrics.Filter{}).
					Return([]series.Point{
						{Sprint: "Sprint 1", Value: 10},
						{Sprint: "Sprint 2", Value: 30},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: []api.SeriesPoint{
				{Sprint: "Sprint 1", Value: 10},
				{Sprint: "Sprint 2", Value: 30},
			},
			parseResponse: unmarshalResponse[[]api.SeriesPoint](),
		},
		{
			name:           "GetSeries_Unknown",
			method:         http.MethodGet,
			path:           "/api/v1/projects/1/performance/series/burndown",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
			expected:       api.Error{Message: `unknown series "burndown"`},
			parseResponse:  unmarshalResponse[api.Error](),
		},
		{
			name:   "ExportReport_EmptyDataset",
			method: http.MethodPost,
			path:   "/api/v1/projects/1/performance/export",
			setupMocks: func() {
				mockSvc.On("Export", mock.Anything, int64(1), metrics.Filter{}).
					Return(nil, report.ErrEmptyDataset)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expected:       api.Error{Message: "no data available to export"},
			parseResponse:  unmarshalResponse[api.Error](),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, nil)
			require.NoError(t, err, "Failed to build request")
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
