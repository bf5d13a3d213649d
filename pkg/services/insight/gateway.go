package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/services/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request carries everything the narrative-analysis collaborator needs.
// The gateway pre-filters to active developers and attaches normalized
// efficiency before sending, so the external service never reasons about
// inactive developers or unnormalized numbers.
type Request struct {
	PerformanceData []domain.PerformanceRecord
	Sprints         []domain.Sprint
	Developers      []domain.Developer
	Metrics         domain.Metrics
}

// Analyzer is the external boundary to the narrative-insight collaborator.
type Analyzer interface {
	AnalyzePerformance(ctx context.Context, req Request) domain.AnalysisResult
}

// Gateway is the HTTP implementation. The client and config are injected
// by the caller; lifecycle is scoped to one report-generation call, there
// is no package-level singleton state.
type Gateway struct {
	cfg    Config
	client *http.Client
}

func NewGateway(cfg Config, client *http.Client) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gateway{cfg: cfg, client: client}
}

type wireRecord struct {
	SprintID           int64   `json:"sprint_id"`
	SprintName         string  `json:"sprint_name"`
	DeveloperID        int64   `json:"developer_id"`
	DeveloperName      string  `json:"developer_name"`
	HoursWorked        float64 `json:"hours_worked"`
	TasksCompleted     int     `json:"tasks_completed"`
	TasksAssigned      int     `json:"tasks_assigned"`
	Efficiency         float64 `json:"efficiency"`
	OriginalEfficiency float64 `json:"original_efficiency"`
}

type wireSprint struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type wireDeveloper struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

type wireMetrics struct {
	TotalTasksAssigned  int     `json:"total_tasks_assigned"`
	TotalTasksCompleted int     `json:"total_tasks_completed"`
	CompletionRate      float64 `json:"completion_rate"`
	TotalHoursWorked    float64 `json:"total_hours_worked"`
	ActiveDevelopers    int     `json:"active_developers"`
	ActiveSprints       int     `json:"active_sprints"`
}

type analysisRequest struct {
	RequestID       string          `json:"request_id"`
	Model           string          `json:"model,omitempty"`
	PerformanceData []wireRecord    `json:"performance_data"`
	Sprints         []wireSprint    `json:"sprints"`
	Developers      []wireDeveloper `json:"developers"`
	Metrics         wireMetrics     `json:"metrics"`
}

type wireInsight struct {
	Category       string   `json:"category"`
	Severity       string   `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	DataPoints     []string `json:"data_points,omitempty"`
}

type analysisResponse struct {
	Success  bool          `json:"success"`
	Insights []wireInsight `json:"insights"`
	Summary  string        `json:"summary"`
	Error    string        `json:"error,omitempty"`
}

// AnalyzePerformance performs the single round trip to the collaborator.
// Timeouts, transport failures, non-2xx statuses and malformed payloads
// all degrade to a Success:false result with a locally generated summary;
// the raw error never propagates to the report assembler.
func (g *Gateway) AnalyzePerformance(ctx context.Context, req Request) domain.AnalysisResult {
	logger := zerolog.Ctx(ctx)

	active := metrics.FilterActive(req.PerformanceData)
	normalized := metrics.NormalizeEfficiency(active)

	requestID := uuid.NewString()
	payload, err := json.Marshal(g.buildPayload(requestID, normalized, req))
	if err != nil {
		return g.fallback(req, fmt.Sprintf("failed to encode analysis request: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return g.fallback(req, fmt.Sprintf("failed to build analysis request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	}

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		logger.Warn().Err(err).Str("request_id", requestID).Msg("insight analysis call failed")
		return g.fallback(req, fmt.Sprintf("analysis call failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("request_id", requestID).
			Msg("insight analysis returned non-2xx status")
		return g.fallback(req, fmt.Sprintf("analysis returned status %s", resp.Status))
	}

	var decoded analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		logger.Warn().Err(err).Str("request_id", requestID).Msg("malformed insight analysis response")
		return g.fallback(req, fmt.Sprintf("malformed analysis response: %v", err))
	}
	if !decoded.Success {
		return g.fallback(req, decoded.Error)
	}

	logger.Info().
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Int("insights", len(decoded.Insights)).
		Msg("insight analysis completed")

	result := domain.AnalysisResult{
		Success: true,
		Summary: decoded.Summary,
	}
	for _, in := range decoded.Insights {
		result.Insights = append(result.Insights, domain.Insight{
			Category:       mapCategory(in.Category),
			Severity:       mapSeverity(in.Severity),
			Title:          in.Title,
			Description:    in.Description,
			Recommendation: in.Recommendation,
			DataPoints:     in.DataPoints,
		})
	}
	return result
}

func (g *Gateway) buildPayload(
	requestID string,
	normalized []domain.PerformanceRecord,
	req Request,
) analysisRequest {
	activeIDs := make(map[int64]struct{}, len(normalized))
	payload := analysisRequest{
		RequestID: requestID,
		Model:     g.cfg.Model,
		Metrics: wireMetrics{
			TotalTasksAssigned:  req.Metrics.TotalTasksAssigned,
			TotalTasksCompleted: req.Metrics.TotalTasksCompleted,
			CompletionRate:      req.Metrics.CompletionRate,
			TotalHoursWorked:    req.Metrics.TotalHoursWorked,
			ActiveDevelopers:    req.Metrics.ActiveDevelopers,
			ActiveSprints:       req.Metrics.ActiveSprints,
		},
	}
	for _, r := range normalized {
		activeIDs[r.DeveloperID] = struct{}{}
		payload.PerformanceData = append(payload.PerformanceData, wireRecord{
			SprintID:           r.SprintID,
			SprintName:         r.SprintName,
			DeveloperID:        r.DeveloperID,
			DeveloperName:      r.DeveloperName,
			HoursWorked:        r.HoursWorked,
			TasksCompleted:     r.TasksCompleted,
			TasksAssigned:      r.TasksAssigned,
			Efficiency:         r.NormalizedEfficiency,
			OriginalEfficiency: r.Efficiency,
		})
	}
	for _, s := range req.Sprints {
		payload.Sprints = append(payload.Sprints, wireSprint{
			ID:        s.ID,
			Name:      s.Name,
			StartDate: s.StartDate.Format("2006-01-02"),
			EndDate:   s.EndDate.Format("2006-01-02"),
		})
	}
	for _, d := range req.Developers {
		if _, ok := activeIDs[d.ID]; !ok {
			continue
		}
		payload.Developers = append(payload.Developers, wireDeveloper{
			ID:       d.ID,
			Username: d.Username,
			FullName: d.FullName,
		})
	}
	return payload
}

func (g *Gateway) fallback(req Request, reason string) domain.AnalysisResult {
	return domain.AnalysisResult{
		Success: false,
		Summary: FallbackSummary(req.Metrics),
		Err:     reason,
	}
}

// FallbackSummary is the locally generated stand-in used whenever the
// collaborator cannot answer.
func FallbackSummary(m domain.Metrics) string {
	return fmt.Sprintf(
		"Automated analysis is unavailable. In scope: %d active developers across %d sprints, "+
			"%d of %d tasks completed (%.1f%%), %.1f hours worked.",
		m.ActiveDevelopers, m.ActiveSprints,
		m.TotalTasksCompleted, m.TotalTasksAssigned, m.CompletionRate,
		m.TotalHoursWorked,
	)
}

func mapCategory(s string) domain.InsightCategory {
	switch domain.InsightCategory(s) {
	case domain.InsightCategoryPerformance,
		domain.InsightCategoryEfficiency,
		domain.InsightCategoryWorkload,
		domain.InsightCategorySprint,
		domain.InsightCategoryGeneral:
		return domain.InsightCategory(s)
	default:
		return domain.InsightCategoryGeneral
	}
}

func mapSeverity(s string) domain.InsightSeverity {
	switch domain.InsightSeverity(s) {
	case domain.InsightSeverityLow, domain.InsightSeverityMedium, domain.InsightSeverityHigh:
		return domain.InsightSeverity(s)
	default:
		return domain.InsightSeverityLow
	}
}
