package performance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dev-metrics/sprint-pulse/pkg/adapters"
	"github.com/dev-metrics/sprint-pulse/pkg/models/api"
	"github.com/dev-metrics/sprint-pulse/pkg/services/metrics"
	"github.com/dev-metrics/sprint-pulse/pkg/services/performance"
	"github.com/dev-metrics/sprint-pulse/pkg/services/report"
	"github.com/dev-metrics/sprint-pulse/pkg/services/series"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc performance.Service
}

func NewHandler(svc performance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	projectID, filter, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.svc.GetPerformance(ctx, projectID, filter)
	if err != nil {
		logger.Error().Err(err).Int64("project", projectID).Msg("failed to get performance batch")
		writeError(w, http.StatusInternalServerError, "failed to compute performance data")
		return
	}

	writeJSON(ctx, w, adapters.MapPerformanceBatchDomainToApi(batch))
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	projectID, filter, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.svc.GetMetrics(ctx, projectID, filter)
	if err != nil {
		logger.Error().Err(err).Int64("project", projectID).Msg("failed to compute metrics")
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}

	writeJSON(ctx, w, adapters.MapMetricsDomainToApi(*m))
}

func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	projectID, filter, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind := chi.URLParam(r, "series")
	payload, err := h.buildSeries(r, projectID, filter, kind)
	if err != nil {
		if errors.Is(err, errUnknownSeries) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown series %q", kind))
			return
		}
		logger.Error().Err(err).Str("series", kind).Msg("failed to build series")
		writeError(w, http.StatusInternalServerError, "failed to build series")
		return
	}

	writeJSON(ctx, w, payload)
}

var errUnknownSeries = errors.New("unknown series")

func (h *Handler) buildSeries(
	r *http.Request,
	projectID int64,
	filter metrics.Filter,
	kind string,
) (any, error) {
	ctx := r.Context()
	switch kind {
	case "total-hours":
		points, err := h.svc.GetTotalHoursSeries(ctx, projectID, filter)
		if err != nil {
			return nil, err
		}
		return mapPoints(points), nil
	case "hours-by-developer":
		m, err := h.svc.GetHoursMatrix(ctx, projectID, filter)
		if err != nil {
			return nil, err
		}
		return mapMatrix(m), nil
	case "tasks-by-developer":
		m, err := h.svc.GetTasksMatrix(ctx, projectID, filter)
		if err != nil {
			return nil, err
		}
		return mapMatrix(m), nil
	case "efficiency":
		points, err := h.svc.GetEfficiencySeries(ctx, projectID, filter)
		if err != nil {
			return nil, err
		}
		return mapEfficiency(points), nil
	default:
		return nil, errUnknownSeries
	}
}

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	projectID, filter, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	artifact, err := h.svc.Export(ctx, projectID, filter)
	if err != nil {
		if errors.Is(err, report.ErrEmptyDataset) {
			writeError(w, http.StatusUnprocessableEntity, "no data available to export")
			return
		}
		logger.Error().Err(err).Int64("project", projectID).Msg("failed to export report")
		writeError(w, http.StatusInternalServerError, "failed to export report")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	if _, err := w.Write(artifact.Content); err != nil {
		logger.Error().Err(err).Msg("failed to write report artifact")
	}
}

func scopeFromRequest(r *http.Request) (int64, metrics.Filter, error) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "project"), 10, 64)
	if err != nil {
		return 0, metrics.Filter{}, fmt.Errorf("invalid project id")
	}

	var filter metrics.Filter
	if raw := r.URL.Query().Get("sprint"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, metrics.Filter{}, fmt.Errorf("invalid sprint filter")
		}
		filter.SprintID = &id
	}
	if raw := r.URL.Query().Get("developer"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, metrics.Filter{}, fmt.Errorf("invalid developer filter")
		}
		filter.DeveloperID = &id
	}
	return projectID, filter, nil
}

func mapPoints(points []series.Point) []api.SeriesPoint {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Sprint: p.Sprint, Value: p.Value})
	}
	return out
}

func mapMatrix(m *series.Matrix) api.DeveloperMatrix {
	out := api.DeveloperMatrix{
		Developers: make([]string, 0, len(m.Developers)),
		Rows:       make([]api.MatrixRow, 0, len(m.Rows)),
	}
	for _, d := range m.Developers {
		out.Developers = append(out.Developers, d.Name)
	}
	for _, row := range m.Rows {
		out.Rows = append(out.Rows, api.MatrixRow{Sprint: row.Sprint, Values: row.Values})
	}
	return out
}

func mapEfficiency(points []series.EfficiencyPoint) []api.EfficiencyPoint {
	out := make([]api.EfficiencyPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.EfficiencyPoint{
			Developer:  p.Developer.Name,
			Normalized: p.Normalized,
			Original:   p.Original,
		})
	}
	return out
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Message: msg})
}
